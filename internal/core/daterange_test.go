package core

import (
	"testing"
	"time"
)

func TestRangeStarters(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	tests := []struct {
		name  string
		rng   DateRange
		now   time.Time
		want  Date
	}{
		{"today", RangeToday, time.Date(2024, 3, 6, 18, 30, 0, 0, time.UTC), NewDate(2024, 3, 6)},
		{"today uses now's location", RangeToday, time.Date(2024, 3, 6, 23, 30, 0, 0, jakarta), NewDate(2024, 3, 6)},
		{"week on a wednesday", RangeWeek, time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC), NewDate(2024, 3, 3)},
		{"week on a sunday", RangeWeek, time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), NewDate(2024, 3, 3)},
		{"week across month boundary", RangeWeek, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), NewDate(2024, 2, 25)},
		{"month", RangeMonth, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), NewDate(2024, 2, 1)},
		{"year", RangeYear, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), NewDate(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter, err := GetRangeStarter(tt.rng)
			if err != nil {
				t.Fatalf("GetRangeStarter(%s): %v", tt.rng, err)
			}
			if got := starter.Start(tt.now); !got.Equal(tt.want.Time) {
				t.Errorf("Start() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekStartMonday(t *testing.T) {
	got := WeekStart{FirstDay: time.Monday}.Start(time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC))
	if want := NewDate(2024, 2, 26); !got.Equal(want.Time) {
		t.Fatalf("Start() = %v, want %v", got, want)
	}
}

func TestGetRangeStarterUnbounded(t *testing.T) {
	if _, err := GetRangeStarter(RangeAll); err == nil {
		t.Fatal("expected error for RangeAll")
	}
	if _, err := GetRangeStarter("fortnight"); err == nil {
		t.Fatal("expected error for unknown range")
	}
}
