package services

import "time"

const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the half-open [Sunday, next Sunday) range containing
// the given day. Weeks start on Sunday.
func WeekWindow(day time.Time, location *time.Location) (time.Time, time.Time) {
	dayStart := DateAtLocation(day, location)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	return weekStart, weekStart.AddDate(0, 0, 7)
}

// PeriodRange maps a report period name onto the half-open instant range
// containing now. Quarters are 3-calendar-month blocks aligned to January.
func PeriodRange(period string, now time.Time, location *time.Location) (time.Time, time.Time, error) {
	today := DateAtLocation(now, location)

	switch period {
	case PeriodWeek:
		start, end := WeekWindow(now, location)
		return start, end, nil
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 1, 0), nil
	case PeriodQuarter:
		quarterIndex := (int(today.Month()) - 1) / 3
		start := time.Date(today.Year(), time.Month(quarterIndex*3+1), 1, 0, 0, 0, 0, today.Location())
		return start, start.AddDate(0, 3, 0), nil
	default:
		return time.Time{}, time.Time{}, &DomainError{
			Kind:    ErrValidation,
			Message: "unknown report period",
			Fields:  []string{"period"},
		}
	}
}
