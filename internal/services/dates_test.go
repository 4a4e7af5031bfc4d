package services

import (
	"errors"
	"testing"
	"time"
)

func TestDateAtLocationTruncatesInZone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 UTC is already the next day in Berlin.
	instant := time.Date(2026, time.February, 16, 23, 30, 0, 0, time.UTC)
	day := DateAtLocation(instant, berlin)

	want := time.Date(2026, time.February, 17, 0, 0, 0, 0, berlin)
	if !day.Equal(want) {
		t.Fatalf("DateAtLocation() = %v, want %v", day, want)
	}
}

func TestDateAtLocationDefaultsToUTC(t *testing.T) {
	instant := time.Date(2026, time.February, 16, 8, 45, 0, 0, time.UTC)
	day := DateAtLocation(instant, nil)

	want := time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("DateAtLocation() = %v, want %v", day, want)
	}
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	instant := time.Date(2026, time.February, 16, 15, 0, 0, 0, time.UTC)
	start, end := DayRange(instant, time.UTC)

	if !start.Equal(time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day end = %v", end)
	}
}

func TestWeekWindowStartsOnSunday(t *testing.T) {
	// 2026-02-18 is a Wednesday; its week starts Sunday 2026-02-15.
	wednesday := time.Date(2026, time.February, 18, 10, 0, 0, 0, time.UTC)
	start, end := WeekWindow(wednesday, time.UTC)

	if start.Weekday() != time.Sunday {
		t.Fatalf("week start weekday = %v, want Sunday", start.Weekday())
	}
	if !start.Equal(time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week start = %v, want 2026-02-15", start)
	}
	if !end.Equal(time.Date(2026, time.February, 22, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week end = %v, want 2026-02-22", end)
	}
}

func TestWeekWindowOnSundayKeepsTheSameDay(t *testing.T) {
	sunday := time.Date(2026, time.February, 15, 23, 59, 0, 0, time.UTC)
	start, _ := WeekWindow(sunday, time.UTC)

	if !start.Equal(time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week start = %v, want the Sunday itself", start)
	}
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2026, time.February, 18, 13, 0, 0, 0, time.UTC)

	testCases := []struct {
		period    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			period:    PeriodWeek,
			wantStart: time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.February, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			period:    PeriodMonth,
			wantStart: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			period:    PeriodQuarter,
			wantStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, testCase := range testCases {
		start, end, err := PeriodRange(testCase.period, now, time.UTC)
		if err != nil {
			t.Fatalf("PeriodRange(%q) unexpected error: %v", testCase.period, err)
		}
		if !start.Equal(testCase.wantStart) {
			t.Fatalf("PeriodRange(%q) start = %v, want %v", testCase.period, start, testCase.wantStart)
		}
		if !end.Equal(testCase.wantEnd) {
			t.Fatalf("PeriodRange(%q) end = %v, want %v", testCase.period, end, testCase.wantEnd)
		}
	}
}

func TestPeriodRangeQuarterAlignsToJanuary(t *testing.T) {
	december := time.Date(2026, time.December, 2, 9, 0, 0, 0, time.UTC)
	start, end, err := PeriodRange(PeriodQuarter, december, time.UTC)
	if err != nil {
		t.Fatalf("PeriodRange() unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("quarter start = %v, want 2026-10-01", start)
	}
	if !end.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("quarter end = %v, want 2027-01-01", end)
	}
}

func TestPeriodRangeRejectsUnknownPeriod(t *testing.T) {
	_, _, err := PeriodRange("fortnight", time.Now(), time.UTC)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if fields := ErrorFields(err); len(fields) != 1 || fields[0] != "period" {
		t.Fatalf("expected period field, got %#v", fields)
	}
}
