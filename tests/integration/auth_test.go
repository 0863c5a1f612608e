package integration

import (
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")

	// Step 1: Register
	token, userID := app.registerUser(t, "auth@test.com", currencyID)
	if token == "" {
		t.Fatal("expected non-empty token from registration")
	}
	if userID == "" {
		t.Fatal("expected non-empty user ID")
	}

	// Step 2: Login with same credentials
	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"auth@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	loginToken := parseJSON(t, rec)["token"].(string)
	if loginToken == "" {
		t.Fatal("expected non-empty token from login")
	}

	// Step 3: Access profile with login token
	rec = app.request("GET", "/api/v1/profile", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}

	// Registration created the settings row alongside the user
	settings := user["settings"].(map[string]interface{})
	if settings["currency_id"] != currencyID {
		t.Errorf("expected settings currency %s, got %v", currencyID, settings["currency_id"])
	}
}

func TestAuthFlow_RegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")

	app.registerUser(t, "dup@test.com", currencyID)

	// Try to register again with same email
	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"dup@test.com","password":"password123","name":"Test","currency_id":"`+currencyID+`"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", code)
	}
}

func TestAuthFlow_RegisterUnknownCurrency(t *testing.T) {
	app := setupApp(t)

	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"nocur@test.com","password":"password123","name":"Test","currency_id":"00000000-0000-0000-0000-000000000000"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown currency, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "CURRENCY_NOT_FOUND" {
		t.Errorf("expected CURRENCY_NOT_FOUND, got %v", code)
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")

	app.registerUser(t, "wrong@test.com", currencyID)

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"wrong@test.com","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", code)
	}
}

func TestAuthFlow_UpdateSettings(t *testing.T) {
	app := setupApp(t)
	usdID := app.seedCurrency(t, "USD", "$")
	eurID := app.seedCurrency(t, "EUR", "€")

	token, _ := app.registerUser(t, "settings@test.com", usdID)

	// Switch preferred currency and language
	rec := app.request("PUT", "/api/v1/profile/settings",
		`{"currency_id":"`+eurID+`","language":"de"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	settings := parseJSON(t, rec)["settings"].(map[string]interface{})
	if settings["currency_id"] != eurID {
		t.Errorf("expected currency %s, got %v", eurID, settings["currency_id"])
	}
	if settings["language"] != "de" {
		t.Errorf("expected language de, got %v", settings["language"])
	}

	// An empty update is rejected
	rec = app.request("PUT", "/api/v1/profile/settings", `{}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %v", code)
	}
}

func TestAuthFlow_ProfileWithoutAuth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthFlow_ProfileWithInvalidToken(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/profile", "", "invalid-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
