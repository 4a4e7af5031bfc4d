package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type errorPayload struct {
	Error    string   `json:"error"`
	Fields   []string `json:"fields"`
	RecordID uint     `json:"record_id"`
}

func containsField(fields []string, name string) bool {
	for _, field := range fields {
		if field == name {
			return true
		}
	}
	return false
}

func TestClockLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	account := registerTestAccount(t, app, "clock@example.com", "Clock", "StrongPass1")
	today := time.Now().UTC().Format("2006-01-02")

	response := performJSON(t, app, http.MethodGet, "/api/clock/status", account.Cookie, nil)
	status := struct {
		Open bool `json:"open"`
	}{Open: true}
	decodeJSONBody(t, response, &status)
	if status.Open {
		t.Fatal("fresh account must not have an open session")
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/in", account.Cookie, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("clock in: expected 201, got %d", response.StatusCode)
	}
	first := sessionView{}
	decodeJSONBody(t, response, &first)
	if !first.Open || first.EndTime != nil {
		t.Fatalf("clock in must open a session: %+v", first)
	}
	if first.WorkDate != today {
		t.Fatalf("work date = %q, want %q", first.WorkDate, today)
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/in", account.Cookie, nil)
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("double clock in: expected 409, got %d", response.StatusCode)
	}
	conflict := errorPayload{}
	decodeJSONBody(t, response, &conflict)
	if conflict.RecordID != first.ID {
		t.Fatalf("conflict record_id = %d, want %d", conflict.RecordID, first.ID)
	}

	response = performJSON(t, app, http.MethodGet, "/api/clock/status", account.Cookie, nil)
	liveStatus := struct {
		Open      bool        `json:"open"`
		Session   sessionView `json:"session"`
		LiveHours float64     `json:"live_hours"`
	}{}
	decodeJSONBody(t, response, &liveStatus)
	if !liveStatus.Open || liveStatus.Session.ID != first.ID {
		t.Fatalf("unexpected live status: %+v", liveStatus)
	}
	if liveStatus.LiveHours < 0 {
		t.Fatalf("live hours = %v", liveStatus.LiveHours)
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/out", account.Cookie, fiber.Map{"break_minutes": 0})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("clock out: expected 200, got %d", response.StatusCode)
	}
	closed := sessionView{}
	decodeJSONBody(t, response, &closed)
	if closed.Open || closed.EndTime == nil {
		t.Fatalf("clock out must close the session: %+v", closed)
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/out", account.Cookie, nil)
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("double clock out: expected 409, got %d", response.StatusCode)
	}
	response.Body.Close()

	// A second shift the same day is legal.
	response = performJSON(t, app, http.MethodPost, "/api/clock/in", account.Cookie, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("second clock in: expected 201, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodGet, "/api/clock/day", account.Cookie, nil)
	day := struct {
		Date       string        `json:"date"`
		Sessions   []sessionView `json:"sessions"`
		TotalHours float64       `json:"total_hours"`
	}{}
	decodeJSONBody(t, response, &day)
	if day.Date != today {
		t.Fatalf("day = %q, want %q", day.Date, today)
	}
	if len(day.Sessions) != 2 {
		t.Fatalf("expected 2 sessions today, got %d", len(day.Sessions))
	}
}

func TestClockOutValidatesBreakMinutes(t *testing.T) {
	app, _ := newTestApp(t)
	account := registerTestAccount(t, app, "break@example.com", "Break", "StrongPass1")

	response := performJSON(t, app, http.MethodPost, "/api/clock/in", account.Cookie, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("clock in: expected 201, got %d", response.StatusCode)
	}
	response.Body.Close()

	for _, breakMinutes := range []int{-1, 481} {
		response = performJSON(t, app, http.MethodPost, "/api/clock/out", account.Cookie, fiber.Map{"break_minutes": breakMinutes})
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("break %d: expected 400, got %d", breakMinutes, response.StatusCode)
		}
		payload := errorPayload{}
		decodeJSONBody(t, response, &payload)
		if !containsField(payload.Fields, "break_minutes") {
			t.Fatalf("break %d: fields = %v", breakMinutes, payload.Fields)
		}
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/out", account.Cookie, fiber.Map{"break_minutes": 30})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("valid clock out: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestManualSessionIsManagerOnly(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")
	worker := registerTestAccount(t, app, "crew@example.com", "Crew", "StrongPass1")

	payload := fiber.Map{
		"user_id":       worker.UserID,
		"start":         "2026-02-16 09:00",
		"end":           "2026-02-16 15:00",
		"break_minutes": 60,
	}

	response := performJSON(t, app, http.MethodPost, "/api/clock/manual", worker.Cookie, payload)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("worker manual session: expected 403, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/clock/manual", manager.Cookie, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("manual session: expected 201, got %d", response.StatusCode)
	}
	session := sessionView{}
	decodeJSONBody(t, response, &session)
	if session.UserID != worker.UserID || !session.Manual || session.Open {
		t.Fatalf("unexpected manual session: %+v", session)
	}
	if session.Hours != 5.0 {
		t.Fatalf("manual session hours = %v, want 5.0", session.Hours)
	}
	if session.WorkDate != "2026-02-16" {
		t.Fatalf("manual session work date = %q", session.WorkDate)
	}

	response = performJSON(t, app, http.MethodPost, "/api/clock/manual", manager.Cookie, fiber.Map{
		"user_id": worker.UserID,
		"start":   "noonish",
		"end":     "2026-02-16 15:00",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad start: expected 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/clock/manual", manager.Cookie, fiber.Map{
		"user_id": worker.UserID,
		"start":   "2026-02-16 15:00",
		"end":     "2026-02-16 09:00",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted interval: expected 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/clock/manual", manager.Cookie, fiber.Map{
		"user_id": 4242,
		"start":   "2026-02-16 09:00",
		"end":     "2026-02-16 15:00",
	})
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", response.StatusCode)
	}
	response.Body.Close()
}
