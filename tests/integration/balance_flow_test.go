package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBalanceFlow_TotalsOverRange(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "balance@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")

	app.createTransaction(t, token, walletID, "100", true, 1705312800, nil)
	app.createTransaction(t, token, walletID, "30", false, 1705312900, nil)
	app.createTransaction(t, token, walletID, "20", false, 1705313000, nil)
	// Outside the range, must not count
	app.createTransaction(t, token, walletID, "999", true, 1707991200, nil)

	path := fmt.Sprintf("/api/v1/balance?currency_id=%s&start_carried_out=1705312800&end_carried_out=1705313000&wallets=%s", currencyID, walletID)
	rec := app.request("GET", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	balance := parseJSON(t, rec)["balance"].(map[string]interface{})
	if balance["total_income"] != "100" {
		t.Errorf("expected total income 100, got %v", balance["total_income"])
	}
	if balance["total_expense"] != "50" {
		t.Errorf("expected total expense 50, got %v", balance["total_expense"])
	}
}

func TestBalanceFlow_RangeStartingAtEpochZero(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "epoch@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")

	// The epoch itself is a valid business date and a valid range bound
	app.createTransaction(t, token, walletID, "15", true, 0, nil)

	path := fmt.Sprintf("/api/v1/balance?currency_id=%s&start_carried_out=0&end_carried_out=1705313000&wallets=%s", currencyID, walletID)
	rec := app.request("GET", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a range starting at 0, got %d: %s", rec.Code, rec.Body.String())
	}
	balance := parseJSON(t, rec)["balance"].(map[string]interface{})
	if balance["total_income"] != "15" {
		t.Errorf("expected total income 15, got %v", balance["total_income"])
	}

	path = fmt.Sprintf("/api/v1/transactions?currency_id=%s&start_carried_out=0&end_carried_out=1705313000&wallets=%s", currencyID, walletID)
	rec = app.request("GET", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a listing starting at 0, got %d: %s", rec.Code, rec.Body.String())
	}
	if rows := parseJSON(t, rec)["transactions"].([]interface{}); len(rows) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(rows))
	}
}

func TestBalanceFlow_DeletedTransactionLeavesNoTrace(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "notrace@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")

	app.createTransaction(t, token, walletID, "50", true, 1705312800, nil)
	txID := app.createTransaction(t, token, walletID, "20", true, 1705312900, nil)

	rec := app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	path := fmt.Sprintf("/api/v1/balance?currency_id=%s&start_carried_out=1705312800&end_carried_out=1705313000&wallets=%s", currencyID, walletID)
	rec = app.request("GET", path, "", token)
	balance := parseJSON(t, rec)["balance"].(map[string]interface{})
	if balance["total_income"] != "50" {
		t.Errorf("expected total income 50 after delete, got %v", balance["total_income"])
	}
}

func TestBalanceFlow_CategoryAnnotatedListing(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "catbalance@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")
	foodID := app.createCategory(t, token, "Food")
	app.createCategory(t, token, "Unused")

	app.createTransaction(t, token, walletID, "40", false, 1705312800, []string{foodID})

	path := fmt.Sprintf("/api/v1/categories?start_carried_out=1705312800&end_carried_out=1705313000&wallets=%s", walletID)
	rec := app.request("GET", path, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 category rows, got %d", len(categories))
	}

	byName := map[string]map[string]interface{}{}
	for _, c := range categories {
		row := c.(map[string]interface{})
		byName[row["name"].(string)] = row
	}
	if byName["Food"]["expense"] != "40" {
		t.Errorf("expected Food expense 40, got %v", byName["Food"]["expense"])
	}
	// Categories without matching transactions still appear, with zeros
	if byName["Unused"]["expense"] != "0" {
		t.Errorf("expected Unused expense 0, got %v", byName["Unused"]["expense"])
	}

	// A range request missing one bound is rejected
	rec = app.request("GET", "/api/v1/categories?start_carried_out=1705312800", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for half-open range, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBalanceFlow_PlainCategoryListingIsPaginated(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "catpage@test.com", currencyID)

	for i := 0; i < 3; i++ {
		app.createCategory(t, token, fmt.Sprintf("Category %d", i))
	}

	rec := app.request("GET", "/api/v1/categories?page=1&page_size=2", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 3 {
		t.Errorf("expected 3 total items, got %v", result["total_items"])
	}
	if len(result["data"].([]interface{})) != 2 {
		t.Errorf("expected 2 items on the first page, got %d", len(result["data"].([]interface{})))
	}
}

func TestBalanceFlow_MonthlyBuckets(t *testing.T) {
	app := setupApp(t)
	currencyID := app.seedCurrency(t, "USD", "$")
	token, _ := app.registerUser(t, "monthly@test.com", currencyID)
	walletID := app.createWallet(t, token, "Checking", currencyID, "0")

	// One expense in January 2024, one income in February 2024
	app.createTransaction(t, token, walletID, "25", false, 1705312800, nil)
	app.createTransaction(t, token, walletID, "7", true, 1707991200, nil)

	rec := app.request("GET", "/api/v1/balance/monthly", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	totals := parseJSON(t, rec)["monthly_totals"].([]interface{})
	if len(totals) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(totals))
	}

	jan := totals[0].(map[string]interface{})
	feb := totals[1].(map[string]interface{})
	if jan["month"].(float64) != 1 || jan["expense"] != "25" {
		t.Errorf("unexpected January bucket: %v", jan)
	}
	if feb["month"].(float64) != 2 || feb["income"] != "7" {
		t.Errorf("unexpected February bucket: %v", feb)
	}
}
