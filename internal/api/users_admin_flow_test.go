package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestWorkerProvisioningForcesPasswordChange(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")

	response := performJSON(t, app, http.MethodPost, "/api/users", manager.Cookie, fiber.Map{
		"email": "hire@example.com",
		"name":  "New Hire",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create worker: expected 201, got %d", response.StatusCode)
	}
	created := struct {
		User         userView `json:"user"`
		TempPassword string   `json:"temp_password"`
	}{}
	decodeJSONBody(t, response, &created)
	if created.TempPassword == "" {
		t.Fatal("temp password missing in provisioning response")
	}
	if created.User.Role != "worker" || !created.User.MustChangePassword {
		t.Fatalf("unexpected provisioned account: %+v", created.User)
	}

	// Logging in with the temporary password yields a short-lived token that
	// may only reach the password change endpoints.
	response = performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "hire@example.com",
		"password": created.TempPassword,
	})
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("temp-password login: expected 403, got %d", response.StatusCode)
	}
	gate := struct {
		MustChangePassword bool   `json:"must_change_password"`
		Token              string `json:"token"`
	}{}
	decodeJSONBody(t, response, &gate)
	if !gate.MustChangePassword || gate.Token == "" {
		t.Fatalf("unexpected gate payload: %+v", gate)
	}

	bearer := "Bearer " + gate.Token

	request := newJSONRequest(t, http.MethodGet, "/api/tasks", nil)
	request.Header.Set("Authorization", bearer)
	response = performRequest(t, app, request)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("gated route: expected 403, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "password change required" {
		t.Fatalf("error = %q", message)
	}

	request = newJSONRequest(t, http.MethodGet, "/api/auth/me", nil)
	request.Header.Set("Authorization", bearer)
	response = performRequest(t, app, request)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("me while gated: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	request = newJSONRequest(t, http.MethodPost, "/api/auth/change-password", fiber.Map{
		"current_password": created.TempPassword,
		"new_password":     "FreshPass2",
		"confirm_password": "FreshPass2",
	})
	request.Header.Set("Authorization", bearer)
	response = performRequest(t, app, request)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("change password while gated: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	cookie := loginAndExtractAuthCookie(t, app, "hire@example.com", "FreshPass2")
	response = performJSON(t, app, http.MethodGet, "/api/tasks", cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("after password change: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestListUsersFiltersByActive(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")
	worker := registerTestAccount(t, app, "crew@example.com", "Crew", "StrongPass1")

	response := performJSON(t, app, http.MethodGet, "/api/users", worker.Cookie, nil)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("worker listing users: expected 403, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodGet, "/api/users", manager.Cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", response.StatusCode)
	}
	everyone := []userView{}
	decodeJSONBody(t, response, &everyone)
	if len(everyone) != 2 {
		t.Fatalf("expected 2 users, got %d", len(everyone))
	}

	response = performJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/users/%d/deactivate", worker.UserID), manager.Cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodGet, "/api/users?active=true", manager.Cookie, nil)
	active := []userView{}
	decodeJSONBody(t, response, &active)
	if len(active) != 1 || active[0].ID != manager.UserID {
		t.Fatalf("unexpected active listing: %+v", active)
	}

	response = performJSON(t, app, http.MethodGet, "/api/users?active=false", manager.Cookie, nil)
	inactive := []userView{}
	decodeJSONBody(t, response, &inactive)
	if len(inactive) != 1 || inactive[0].ID != worker.UserID {
		t.Fatalf("unexpected inactive listing: %+v", inactive)
	}
}

func TestCreateWorkerValidation(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")
	worker := registerTestAccount(t, app, "crew@example.com", "Crew", "StrongPass1")

	response := performJSON(t, app, http.MethodPost, "/api/users", worker.Cookie, fiber.Map{
		"email": "x@example.com",
		"name":  "X",
	})
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("worker creating users: expected 403, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "manager access required" {
		t.Fatalf("error = %q", message)
	}

	response = performJSON(t, app, http.MethodPost, "/api/users", manager.Cookie, fiber.Map{
		"email": "not-an-email",
		"name":  "X",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email: expected 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/users", manager.Cookie, fiber.Map{
		"email": "x@example.com",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name: expected 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/users", manager.Cookie, fiber.Map{
		"email": "crew@example.com",
		"name":  "Duplicate",
	})
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestDeactivateAndReactivateUser(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")
	worker := registerTestAccount(t, app, "crew@example.com", "Crew", "StrongPass1")

	response := performJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/users/%d/deactivate", manager.UserID), manager.Cookie, nil)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("self deactivation: expected 400, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "cannot deactivate your own account" {
		t.Fatalf("error = %q", message)
	}

	response = performJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/users/%d/deactivate", worker.UserID), manager.Cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", response.StatusCode)
	}
	deactivated := userView{}
	decodeJSONBody(t, response, &deactivated)
	if deactivated.Active {
		t.Fatal("deactivated user still marked active")
	}

	// A live session dies with the account, and a fresh login is refused.
	response = performJSON(t, app, http.MethodGet, "/api/auth/me", worker.Cookie, nil)
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("deactivated session: expected 403, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    worker.Email,
		"password": worker.Password,
	})
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("deactivated login: expected 403, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response); message != "account deactivated" {
		t.Fatalf("error = %q", message)
	}

	response = performJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/users/%d/reactivate", worker.UserID), manager.Cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("reactivate: expected 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	loginAndExtractAuthCookie(t, app, worker.Email, worker.Password)

	response = performJSON(t, app, http.MethodPatch, "/api/users/4242/deactivate", manager.Cookie, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestResetUserPasswordIssuesTemporaryOne(t *testing.T) {
	app, _ := newTestApp(t)
	manager := registerTestAccount(t, app, "boss@example.com", "Boss", "StrongPass1")
	worker := registerTestAccount(t, app, "crew@example.com", "Crew", "StrongPass1")

	response := performJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/reset-password", worker.UserID), manager.Cookie, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("reset password: expected 200, got %d", response.StatusCode)
	}
	reset := struct {
		UserID       uint   `json:"user_id"`
		TempPassword string `json:"temp_password"`
	}{}
	decodeJSONBody(t, response, &reset)
	if reset.UserID != worker.UserID || reset.TempPassword == "" {
		t.Fatalf("unexpected reset payload: %+v", reset)
	}

	response = performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    worker.Email,
		"password": worker.Password,
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password after reset: expected 401, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    worker.Email,
		"password": reset.TempPassword,
	})
	if response.StatusCode != http.StatusForbidden {
		t.Fatalf("temp password login must gate on 403, got %d", response.StatusCode)
	}
	gate := struct {
		MustChangePassword bool `json:"must_change_password"`
	}{}
	decodeJSONBody(t, response, &gate)
	if !gate.MustChangePassword {
		t.Fatal("reset must force a password change")
	}
}
