package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moneytracker/internal/core"
)

const maxJSONBody = 1 << 20

var errValidation = errors.New("invalid request")

// amountField accepts an amount as a JSON number or a string such as
// "12.500,50".
type amountField struct {
	raw string
	set bool
}

func (a *amountField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	a.set = true
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		a.raw = unq
		return nil
	}
	a.raw = s
	return nil
}

type transactionRequest struct {
	Amount      amountField          `json:"amount"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Type        core.TransactionType `json:"type"`
	Date        string               `json:"date"`
	Vendor      string               `json:"vendor"`
	InvoiceURL  string               `json:"invoiceUrl"`
}

// toTransaction converts the request body; a missing date is today.
func (req transactionRequest) toTransaction(today core.Date) (core.Transaction, error) {
	if !req.Amount.set {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	amount, err := core.ParseAmount(req.Amount.raw)
	if err != nil {
		return core.Transaction{}, err
	}
	date := today
	if strings.TrimSpace(req.Date) != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Type:        req.Type,
		Date:        date,
		Vendor:      sanitizeInput(req.Vendor),
		InvoiceURL:  strings.TrimSpace(req.InvoiceURL),
	}, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errValidation, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", errValidation)
	}
	return nil
}

// parseFilterQuery overlays type, category, range and q query parameters
// on base.
func parseFilterQuery(q url.Values, base core.FilterState) (core.FilterState, error) {
	var p core.FilterPatch
	if v, ok := lookup(q, "type"); ok {
		t := core.TypeFilter(v)
		p.Type = &t
	}
	if v, ok := lookup(q, "category"); ok {
		p.Category = &v
	}
	if v, ok := lookup(q, "range"); ok {
		r := core.DateRange(v)
		p.DateRange = &r
	}
	if _, ok := q["q"]; ok {
		term := strings.TrimSpace(q.Get("q"))
		p.SearchTerm = &term
	}
	f := base.Merge(p)
	if err := f.Validate(); err != nil {
		return core.FilterState{}, err
	}
	return f, nil
}

func lookup(q url.Values, key string) (string, bool) {
	v := strings.TrimSpace(q.Get(key))
	return v, v != ""
}

func parseLimit(q url.Values, def, maxN int) (int, error) {
	v := strings.TrimSpace(q.Get("n"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: n must be a non-negative integer", errValidation)
	}
	return min(n, maxN), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
