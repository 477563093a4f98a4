package util

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"zero months", date(2024, 1, 31), 0, date(2024, 1, 31)},
		{"leap february clamp", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"non-leap february clamp", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"31 day month keeps day", date(2024, 1, 31), 2, date(2024, 3, 31)},
		{"30 day month clamp", date(2024, 3, 31), 1, date(2024, 4, 30)},
		{"year rollover", date(2024, 11, 15), 3, date(2025, 2, 15)},
		{"negative into previous year", date(2024, 1, 10), -1, date(2023, 12, 10)},
		{"negative more than a year", date(2024, 1, 10), -13, date(2022, 12, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.in, tt.n)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonthsClamped(%s, %d) = %s, want %s",
					tt.in.Format(DateLayout), tt.n, got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		targetDay int
		wantDay   int
	}{
		{2024, time.February, 31, 29},
		{2025, time.February, 31, 28},
		{2025, time.April, 31, 30},
		{2025, time.May, 15, 15},
	}

	for _, tt := range tests {
		got := CalculateActualDate(tt.year, tt.month, tt.targetDay)
		if got.Day() != tt.wantDay {
			t.Errorf("CalculateActualDate(%d, %s, %d) day = %d, want %d",
				tt.year, tt.month, tt.targetDay, got.Day(), tt.wantDay)
		}
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 5, 17, 23, 59, 59, 0, time.FixedZone("X", 3*3600))
	got := DateOnly(in)
	if !got.Equal(date(2024, 5, 17)) {
		t.Errorf("DateOnly = %s, want 2024-05-17", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	if got := MonthsBetween(date(2024, 11, 30), date(2025, 2, 1)); got != 3 {
		t.Errorf("MonthsBetween = %d, want 3", got)
	}
	if got := MonthsBetween(date(2024, 5, 1), date(2024, 5, 31)); got != 0 {
		t.Errorf("MonthsBetween same month = %d, want 0", got)
	}
}
