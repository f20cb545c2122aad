package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"12500", 12500, true},
		{" 2500 ", 2500, true},
		{"12.4", 12, true},
		{"12,5", 13, true}, // half-up rounding
		{"1.250.000", 1250000, true},
		{"1,250,000", 1250000, true},
		{"1.250.000,50", 1250001, true},
		{"1,250,000.49", 1250000, true},
		{"+7", 7, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Units != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Units, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := map[int64]string{
		0:        "Rp 0",
		999:      "Rp 999",
		1000:     "Rp 1.000",
		1250000:  "Rp 1.250.000",
		-3000:    "-Rp 3.000",
		12345678: "Rp 12.345.678",
	}
	for units, want := range cases {
		if got := (Money{Units: units}).Format(); got != want {
			t.Errorf("Format(%d) = %q, want %q", units, got, want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Units: 5000})
	if err != nil || string(b) != "5000" {
		t.Fatalf("marshal = %s, %v", b, err)
	}
	var m Money
	if err := json.Unmarshal([]byte("2500.6"), &m); err != nil || m.Units != 2501 {
		t.Fatalf("unmarshal = %d, %v", m.Units, err)
	}
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatalf("expected error for string amount")
	}
	for _, in := range []string{"1e30", "-1e30", "9223372036854775808"} {
		if err := json.Unmarshal([]byte(in), &m); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("unmarshal %s: err = %v, want ErrInvalidAmount", in, err)
		}
	}
}
