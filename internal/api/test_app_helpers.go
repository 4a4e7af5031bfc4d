package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jornada/internal/db"
)

// testAccount bundles what flow tests need to act as a user: the auth cookie
// in Cookie-header form plus the credentials to log in again.
type testAccount struct {
	UserID   uint
	Email    string
	Password string
	Cookie   string
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "jornada-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, "test-secret-key", time.UTC, false)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func newJSONRequest(t *testing.T, method string, path string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		serialized, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(serialized)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return request
}

func performRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	return response
}

func performJSON(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) *http.Response {
	t.Helper()

	request := newJSONRequest(t, method, path, payload)
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}
	return performRequest(t, app, request)
}

func decodeJSONBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	decodeJSONBody(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// registerTestAccount creates an account through the public endpoint. The
// first account in a fresh database comes back as the manager.
func registerTestAccount(t *testing.T, app *fiber.App, email string, name string, password string) testAccount {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":            email,
		"name":             name,
		"password":         password,
		"confirm_password": password,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, response.StatusCode)
	}

	cookieValue := responseCookieValue(response.Cookies(), authCookieName)
	if cookieValue == "" {
		t.Fatalf("auth cookie missing in register response for %s", email)
	}

	payload := struct {
		User userView `json:"user"`
	}{}
	decodeJSONBody(t, response, &payload)

	return testAccount{
		UserID:   payload.User.ID,
		Email:    email,
		Password: password,
		Cookie:   authCookieName + "=" + cookieValue,
	}
}

func loginAndExtractAuthCookie(t *testing.T, app *fiber.App, email string, password string) string {
	t.Helper()

	response := performJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}

	cookieValue := responseCookieValue(response.Cookies(), authCookieName)
	if cookieValue == "" {
		t.Fatal("auth cookie missing in login response")
	}
	return authCookieName + "=" + cookieValue
}
