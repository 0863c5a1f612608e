package models

import "github.com/shopspring/decimal"

// Wallet represents a cash account denominated in a single currency.
// UntrackedBalance covers money the user holds outside recorded
// transactions; the net balance is computed on read and never stored.
type Wallet struct {
	Base
	UserID           string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name             string          `gorm:"not null" json:"name"`
	CurrencyID       string          `gorm:"type:uuid;not null" json:"currency_id"`
	UntrackedBalance decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0" json:"untracked_balance"`

	// Relationships
	Currency     Currency      `gorm:"foreignKey:CurrencyID" json:"currency"`
	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}
