package model

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"already_midnight_utc",
			time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"afternoon_utc",
			time.Date(2025, 3, 9, 14, 30, 12, 999, time.UTC),
			time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"zone_shifts_date",
			// 01:00 in UTC+5 is still the previous day in UTC
			time.Date(2025, 3, 9, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := DayOf(test.in)
			if !got.Equal(test.want) {
				t.Errorf("DayOf(%v) = %v, want %v", test.in, got, test.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Error("same calendar date should match regardless of time-of-day")
	}
	if SameDay(morning, nextDay) {
		t.Error("different dates should not match")
	}
}

func TestEditWindowIs48Hours(t *testing.T) {
	if EditWindow != 48*time.Hour {
		t.Errorf("EditWindow = %v, want 48h", EditWindow)
	}
}
