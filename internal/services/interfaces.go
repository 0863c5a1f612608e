package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, password, name, surname, currencyID, language string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	GetProfile(userID string) (*models.User, error)
	UpdateSettings(userID string, fields SettingsUpdateFields) (*models.UserSettings, error)
}

// SettingsUpdateFields holds the optional fields of a settings update.
// At least one field must be set.
type SettingsUpdateFields struct {
	CurrencyID *string
	Language   *string
}

// Empty reports whether no field is set.
func (f SettingsUpdateFields) Empty() bool {
	return f.CurrencyID == nil && f.Language == nil
}

// CurrencyServicer defines the contract for currency reference data.
type CurrencyServicer interface {
	GetCurrencies() ([]models.Currency, error)
	GetCurrencyByID(id string) (*models.Currency, error)
}

// WalletTableRow is a wallet joined with its transaction aggregates and
// currency display data. Balance is computed, never stored.
type WalletTableRow struct {
	WalletID         string          `json:"wallet_id"`
	Name             string          `json:"name"`
	CurrencyID       string          `json:"currency_id"`
	CurrencyCode     string          `json:"currency_code"`
	CurrencySymbol   string          `json:"currency_symbol"`
	UntrackedBalance decimal.Decimal `json:"untracked_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `gorm:"-" json:"balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// WalletUpdateFields holds the optional fields of a wallet update.
type WalletUpdateFields struct {
	Name             *string
	UntrackedBalance *decimal.Decimal
}

// Empty reports whether no field is set.
func (f WalletUpdateFields) Empty() bool {
	return f.Name == nil && f.UntrackedBalance == nil
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(userID, name, currencyID string, untrackedBalance decimal.Decimal) (*models.Wallet, error)
	GetWallets(userID string) ([]models.Wallet, error)
	GetWalletTableRows(userID string, currencyID *string) ([]WalletTableRow, error)
	GetWalletByID(userID, walletID string) (*models.Wallet, error)
	GetWalletTx(tx *gorm.DB, userID, walletID string) (*models.Wallet, error)
	UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error)
	DeleteWallet(userID, walletID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string) (*models.TransactionCategory, error)
	GetCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionCategory], error)
	GetCategoriesOfTransaction(userID, transactionID string) ([]models.TransactionCategory, error)
	VerifyCategoriesTx(tx *gorm.DB, userID string, categoryIDs []string) error
}

// TransactionUpdateFields holds the optional fields of a partial transaction
// update. At least one field must be set.
type TransactionUpdateFields struct {
	Name        *string
	WalletID    *string
	CategoryIDs *[]string
	Amount      *decimal.Decimal
	CarriedOut  *int64
	IsIncome    *bool
}

// Empty reports whether no field is set.
func (f TransactionUpdateFields) Empty() bool {
	return f.Name == nil && f.WalletID == nil && f.CategoryIDs == nil &&
		f.Amount == nil && f.CarriedOut == nil && f.IsIncome == nil
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, name, walletID string, categoryIDs []string, carriedOut int64, amount decimal.Decimal, isIncome bool) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// TotalBalance holds the grouped income and expense sums for a range query.
// Both totals are non-negative by construction.
type TotalBalance struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// CategoryBalance is one row of the per-category aggregation. Categories
// without matching transactions appear with zero sums.
type CategoryBalance struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
}

// MonthlyWalletTotal is one wallet-and-calendar-month bucket.
type MonthlyWalletTotal struct {
	WalletID     string          `json:"wallet_id"`
	WalletName   string          `json:"wallet_name"`
	CurrencyCode string          `json:"currency_code"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
}

// TransactionRow is a transaction denormalized with wallet and currency
// display fields for list views.
type TransactionRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	WalletID       string          `json:"wallet_id"`
	WalletName     string          `json:"wallet_name"`
	CurrencyCode   string          `json:"currency_code"`
	CurrencySymbol string          `json:"currency_symbol"`
	Amount         decimal.Decimal `json:"amount"`
	IsIncome       bool            `json:"is_income"`
	CarriedOut     int64           `json:"carried_out"`
}

// BalanceServicer defines the contract for on-demand balance aggregation.
// All operations treat the transaction set as the single source of truth;
// soft-deleted transactions and wallets never contribute.
type BalanceServicer interface {
	GetBalance(userID, currencyID string, start, end int64, walletIDs []string) (*TotalBalance, error)
	GetCategoryBalances(userID string, start, end int64, walletIDs []string) ([]CategoryBalance, error)
	GetMonthlyWalletTotals(userID string, currencyCode *string) ([]MonthlyWalletTotal, error)
	GetTransactionsByRange(userID, currencyID string, start, end int64, walletIDs []string) ([]TransactionRow, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID string)
}
