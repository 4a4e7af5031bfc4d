package services

import (
	"math"
	"time"

	"jornada/internal/models"
)

const (
	MaxBreakMinutes = 480
	MaxSessionHours = 24.0
)

// SessionHours converts a closed attendance interval into decimal hours,
// subtracting the break and clamping to the valid [0, 24] range.
func SessionHours(start time.Time, end time.Time, breakMinutes int) float64 {
	hours := end.Sub(start).Hours() - float64(breakMinutes)/60.0
	if hours < 0 {
		return 0
	}
	if hours > MaxSessionHours {
		return MaxSessionHours
	}
	return hours
}

// LiveSessionHours values a still-open session as if it ended now. The
// result is never persisted, clock-out finalizes the stored duration.
func LiveSessionHours(session models.ClockSession, now time.Time) float64 {
	return SessionHours(session.StartTime, now, session.BreakMinutes)
}

// EntryMinutes is the whole-minute length of an entry interval. Durations
// are always derived from the two instants, never edited directly.
func EntryMinutes(start time.Time, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

func MinutesToHours(minutes int) float64 {
	return float64(minutes) / 60.0
}

func RoundHours1(value float64) float64 {
	return math.Round(value*10) / 10
}

func ValidBreakMinutes(minutes int) bool {
	return minutes >= 0 && minutes <= MaxBreakMinutes
}
