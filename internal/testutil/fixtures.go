package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"moneta/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency creates a currency with a unique code.
func CreateTestCurrency(t *testing.T, db *gorm.DB) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Code:   fmt.Sprintf("T%02d", nextID()%100),
		Symbol: "$",
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestWallet creates a wallet with a zero untracked balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID, currencyID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithBalance(t, db, userID, currencyID, decimal.Zero)
}

// CreateTestWalletWithBalance creates a wallet with the given untracked balance.
func CreateTestWalletWithBalance(t *testing.T, db *gorm.DB, userID, currencyID string, untracked decimal.Decimal) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID:           userID,
		Name:             fmt.Sprintf("Test Wallet %d", nextID()),
		CurrencyID:       currencyID,
		UntrackedBalance: untracked,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.TransactionCategory {
	t.Helper()

	category := &models.TransactionCategory{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction in the given wallet.
func CreateTestTransaction(t *testing.T, db *gorm.DB, walletID string, amount decimal.Decimal, isIncome bool, carriedOut int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		WalletID:   walletID,
		Name:       fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:     amount,
		IsIncome:   isIncome,
		CarriedOut: carriedOut,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// LinkTestCategory attaches a category to a transaction.
func LinkTestCategory(t *testing.T, db *gorm.DB, transactionID, categoryID string) *models.CategoryOfTransaction {
	t.Helper()

	link := &models.CategoryOfTransaction{
		TransactionID: transactionID,
		CategoryID:    categoryID,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to link test category: %v", err)
	}
	return link
}
