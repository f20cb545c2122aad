// Package core provides money parsing and handling utilities.
//
// Amounts are whole currency units: the tracked currency has no minor
// units, so there is no cents conversion anywhere in the domain.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxUnits bounds decoded amounts well inside int64.
var maxUnits = decimal.NewFromInt(1 << 62)

// Money is a whole-unit currency amount.
type Money struct {
	Units int64
}

// ParseAmount converts a user or model supplied decimal string to whole units.
//
// Both dot and comma decimal separators are accepted; a fractional part is
// rounded half-up. Grouping separators are tolerated when unambiguous
// ("1.250.000" or "1,250,000"). Negative values and garbage are rejected.
//
// Examples:
//
//	ParseAmount("12500")     -> 12500
//	ParseAmount("12,5")      -> 13
//	ParseAmount("1.250.000") -> 1250000
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	rounded := d.Round(0)
	if !rounded.IsInteger() || rounded.GreaterThan(maxUnits) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Units: rounded.IntPart()}, nil
}

// normalizeSeparators rewrites grouping and decimal separators to the plain
// "1234.5" form decimal understands.
func normalizeSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		// The last separator is the decimal one.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// Format renders the amount with dot grouping, e.g. "Rp 1.250.000".
func (m Money) Format() string {
	units := m.Units
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "Rp " + b.String()
}

func (m Money) Add(o Money) Money { return Money{Units: m.Units + o.Units} }
func (m Money) Sub(o Money) Money { return Money{Units: m.Units - o.Units} }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Units, 10)), nil
}

// UnmarshalJSON accepts a JSON number. Fractional values are rounded so older
// snapshots written by a float-based client still load.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	rounded := d.Round(0)
	if rounded.Abs().GreaterThan(maxUnits) {
		return ErrInvalidAmount
	}
	m.Units = rounded.IntPart()
	return nil
}
