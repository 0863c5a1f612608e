package models

import "github.com/shopspring/decimal"

// Transaction represents a single income or expense entry. Ownership is
// transitive through the wallet; there is no user_id column here.
// CarriedOut is the business date as Unix epoch seconds, distinct from
// the system CreatedAt timestamp.
type Transaction struct {
	Base
	WalletID   string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Name       string          `gorm:"not null" json:"name"`
	Amount     decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"amount"`
	IsIncome   bool            `gorm:"not null" json:"is_income"`
	CarriedOut int64           `gorm:"not null;index" json:"carried_out"`

	// Relationships
	Wallet     Wallet                  `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
	Categories []CategoryOfTransaction `gorm:"foreignKey:TransactionID" json:"categories,omitempty"`
}
