package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneta/internal/handlers"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/models"
	"moneta/internal/services"
	"moneta/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserSettings{},
		&models.Currency{},
		&models.Wallet{},
		&models.TransactionCategory{},
		&models.Transaction{},
		&models.CategoryOfTransaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	currencyService := services.NewCurrencyService(db)
	userService := services.NewUserService(db, currencyService)
	walletService := services.NewWalletService(db, currencyService)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, walletService, categoryService)
	balanceService := services.NewBalanceService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	walletHandler := handlers.NewWalletHandler(walletService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, balanceService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, balanceService, auditService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/settings", authHandler.UpdateSettings)
	protected.GET("/currencies", currencyHandler.GetCurrencies)

	wallets := protected.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.GetWallets)
	wallets.PUT("/:id", walletHandler.UpdateWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.GET("/:id/categories", categoryHandler.GetCategoriesOfTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)

	balance := protected.Group("/balance")
	balance.GET("", balanceHandler.GetBalance)
	balance.GET("/monthly", balanceHandler.GetMonthlyTotals)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// seedCurrency inserts a currency directly and returns its ID.
func (app *testApp) seedCurrency(t *testing.T, code, symbol string) string {
	t.Helper()
	currency := &models.Currency{Code: code, Symbol: symbol}
	if err := app.DB.Create(currency).Error; err != nil {
		t.Fatalf("failed to seed currency: %v", err)
	}
	return currency.ID
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, currencyID string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","name":"Test","surname":"User","currency_id":%q}`, email, currencyID)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// createWallet creates a wallet over HTTP and returns its ID.
func (app *testApp) createWallet(t *testing.T, token, name, currencyID, untracked string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"currency_id":%q,"untracked_balance":%q}`, name, currencyID, untracked)
	rec := app.request("POST", "/api/v1/wallets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	wallet := parseJSON(t, rec)["wallet"].(map[string]interface{})
	return wallet["id"].(string)
}

// createTransaction creates a transaction over HTTP and returns its ID.
func (app *testApp) createTransaction(t *testing.T, token, walletID, amount string, isIncome bool, carriedOut int64, categoryIDs []string) string {
	t.Helper()
	ids := "[]"
	if len(categoryIDs) > 0 {
		quoted := make([]string, len(categoryIDs))
		for i, id := range categoryIDs {
			quoted[i] = fmt.Sprintf("%q", id)
		}
		ids = "[" + strings.Join(quoted, ",") + "]"
	}
	body := fmt.Sprintf(`{"name":"Test entry","wallet_id":%q,"category_ids":%s,"carried_out":%d,"amount":%q,"is_income":%t}`,
		walletID, ids, carriedOut, amount, isIncome)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	transaction := parseJSON(t, rec)["transaction"].(map[string]interface{})
	return transaction["id"].(string)
}

// errorCode extracts the error code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	return errObj["code"].(string)
}
