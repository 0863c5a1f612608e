package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// createCategory creates a category over HTTP and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return category["id"].(string)
}

func TestTransactionFlow_CreateWithCategories(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "tx@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")
	foodID := app.createCategory(t, token, "Food")
	travelID := app.createCategory(t, token, "Travel")

	txID := app.createTransaction(t, token, walletID, "42.50", false, 1705312800, []string{foodID, travelID})

	// The category links are queryable right away
	rec := app.request("GET", "/api/v1/transactions/"+txID+"/categories", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	// The ranged listing returns the denormalized row
	path := fmt.Sprintf("/api/v1/transactions?currency_id=%s&start_carried_out=1705312800&end_carried_out=1705312800&wallets=%s", currencyID, walletID)
	rec = app.request("GET", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	transactions := parseJSON(t, rec)["transactions"].([]interface{})
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	row := transactions[0].(map[string]interface{})
	if row["amount"] != "42.5" {
		t.Errorf("expected amount 42.5, got %v", row["amount"])
	}
	if row["currency_code"] != "USD" {
		t.Errorf("expected currency code USD, got %v", row["currency_code"])
	}
}

func TestTransactionFlow_RejectsInvalidAmount(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "amount@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")

	body := fmt.Sprintf(`{"name":"Bad","wallet_id":%q,"carried_out":1705312800,"amount":"-5","is_income":false}`, walletID)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d: %s", rec.Code, rec.Body.String())
	}

	body = fmt.Sprintf(`{"name":"Bad","wallet_id":%q,"carried_out":1705312800,"amount":"not-a-number","is_income":false}`, walletID)
	rec = app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed amount, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionFlow_ForeignWallet(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	ownerToken, _ := app.registerUser(t, "txowner@test.com", currencyID)
	intruderToken, _ := app.registerUser(t, "txintruder@test.com", currencyID)
	walletID := app.createWallet(t, ownerToken, "Private", currencyID, "0")

	body := fmt.Sprintf(`{"name":"Sneaky","wallet_id":%q,"carried_out":1705312800,"amount":"10","is_income":false}`, walletID)
	rec := app.request("POST", "/api/v1/transactions", body, intruderToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign wallet, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "WALLET_NOT_FOUND" {
		t.Errorf("expected WALLET_NOT_FOUND, got %v", code)
	}
}

func TestTransactionFlow_MoveBetweenWallets(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "move@test.com", currencyID)
	walletA := app.createWallet(t, token, "A", currencyID, "0")
	walletB := app.createWallet(t, token, "B", currencyID, "0")

	txID := app.createTransaction(t, token, walletA, "25", false, 1705312800, nil)

	rec := app.request("PUT", "/api/v1/transactions/"+txID,
		fmt.Sprintf(`{"wallet_id":%q}`, walletB), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The next range query reflects the move without further bookkeeping
	listFor := func(walletID string) []interface{} {
		path := fmt.Sprintf("/api/v1/transactions?currency_id=%s&start_carried_out=1705312800&end_carried_out=1705312800&wallets=%s", currencyID, walletID)
		rec := app.request("GET", path, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("range query failed: %d %s", rec.Code, rec.Body.String())
		}
		return parseJSON(t, rec)["transactions"].([]interface{})
	}

	if rows := listFor(walletA); len(rows) != 0 {
		t.Errorf("expected wallet A to be empty after the move, got %d rows", len(rows))
	}
	if rows := listFor(walletB); len(rows) != 1 {
		t.Errorf("expected wallet B to hold the transaction, got %d rows", len(rows))
	}
}

func TestTransactionFlow_DeleteIsIdempotentlyNotFound(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "txdelete@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")
	txID := app.createTransaction(t, token, walletID, "10", false, 1705312800, nil)

	rec := app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "TRANSACTION_NOT_FOUND" {
		t.Errorf("expected TRANSACTION_NOT_FOUND, got %v", code)
	}
}
