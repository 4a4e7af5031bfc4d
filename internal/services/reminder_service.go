package services

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"jornada/internal/models"
)

type ReminderSessionRepository interface {
	ListOpen() ([]models.ClockSession, error)
}

type ReminderEntryRepository interface {
	ListOpen() ([]models.TimeEntry, error)
}

// ReminderSender delivers a rendered reminder to the team channel.
type ReminderSender interface {
	SendMessage(text string) error
}

// ReminderService posts an end-of-day summary of clock sessions and time
// entries that are still open, so forgotten records get closed the same day.
// It only reads; closing a stale record stays a human decision.
type ReminderService struct {
	sessions   ReminderSessionRepository
	entries    ReminderEntryRepository
	sender     ReminderSender
	location   *time.Location
	minOpenAge time.Duration

	mu          sync.Mutex
	lastSentDay string
}

// NewReminderService wires the reminder over the open-record listings. A nil
// sender disables delivery entirely. minOpenAge filters out records opened
// moments before the reminder fires.
func NewReminderService(sessions ReminderSessionRepository, entries ReminderEntryRepository, sender ReminderSender, location *time.Location, minOpenAge time.Duration) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	if minOpenAge < 0 {
		minOpenAge = 0
	}
	return &ReminderService{
		sessions:   sessions,
		entries:    entries,
		sender:     sender,
		location:   location,
		minOpenAge: minOpenAge,
	}
}

// SendDailySummary sends at most one reminder per calendar day, and only when
// something is actually open. The day is marked as handled only after the
// sender accepts the message, so a failed delivery is retried on the next run.
func (service *ReminderService) SendDailySummary(now time.Time) error {
	if service.sender == nil {
		return nil
	}

	day := now.In(service.location).Format("2006-01-02")
	service.mu.Lock()
	alreadySent := service.lastSentDay == day
	service.mu.Unlock()
	if alreadySent {
		return nil
	}

	openSessions, err := service.sessions.ListOpen()
	if err != nil {
		return fmt.Errorf("list open clock sessions: %w", err)
	}
	openEntries, err := service.entries.ListOpen()
	if err != nil {
		return fmt.Errorf("list open time entries: %w", err)
	}

	staleSessions := make([]models.ClockSession, 0, len(openSessions))
	for _, session := range openSessions {
		if now.Sub(session.StartTime) >= service.minOpenAge {
			staleSessions = append(staleSessions, session)
		}
	}
	staleEntries := make([]models.TimeEntry, 0, len(openEntries))
	for _, entry := range openEntries {
		if now.Sub(entry.StartTime) >= service.minOpenAge {
			staleEntries = append(staleEntries, entry)
		}
	}

	if len(staleSessions) == 0 && len(staleEntries) == 0 {
		return nil
	}

	text := BuildOpenWorkSummary(staleSessions, staleEntries, now.In(service.location))
	if err := service.sender.SendMessage(text); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	service.mu.Lock()
	service.lastSentDay = day
	service.mu.Unlock()
	return nil
}

// BuildOpenWorkSummary renders the reminder as Telegram-flavored HTML.
func BuildOpenWorkSummary(openSessions []models.ClockSession, openEntries []models.TimeEntry, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("⏰ <b>Still on the clock</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("02.01.2006")))

	if len(openSessions) > 0 {
		builder.WriteString("\n<b>Open clock sessions</b>\n")
		for _, session := range openSessions {
			builder.WriteString(fmt.Sprintf("• %s — clocked in %s (%s)\n",
				displayName(session.User, session.UserID),
				session.StartTime.In(now.Location()).Format("15:04"),
				formatOpenFor(now.Sub(session.StartTime)),
			))
		}
	}

	if len(openEntries) > 0 {
		builder.WriteString("\n<b>Running time entries</b>\n")
		for _, entry := range openEntries {
			builder.WriteString(fmt.Sprintf("• %s — «%s» since %s (%s)\n",
				displayName(entry.User, entry.UserID),
				html.EscapeString(strings.TrimSpace(entry.Description)),
				entry.StartTime.In(now.Location()).Format("15:04"),
				formatOpenFor(now.Sub(entry.StartTime)),
			))
		}
	}

	return strings.TrimSpace(builder.String())
}

func displayName(user models.User, fallbackID uint) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		return fmt.Sprintf("user #%d", fallbackID)
	}
	return html.EscapeString(name)
}

func formatOpenFor(age time.Duration) string {
	if age < 0 {
		age = 0
	}
	totalMinutes := int(age / time.Minute)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
