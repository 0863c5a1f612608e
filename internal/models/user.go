package models

// User represents the user model in the database
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Surname  string `json:"surname"`

	// Relationships
	Settings   *UserSettings         `gorm:"foreignKey:UserID" json:"settings,omitempty"`
	Wallets    []Wallet              `gorm:"foreignKey:UserID" json:"wallets,omitempty"`
	Categories []TransactionCategory `gorm:"foreignKey:UserID" json:"categories,omitempty"`
}

// UserSettings holds per-user preferences. Exactly one row per user.
type UserSettings struct {
	Base
	UserID     string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CurrencyID string `gorm:"type:uuid;not null" json:"currency_id"`
	Language   string `gorm:"size:5;not null;default:'en'" json:"language"`

	// Relationships
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}

// TableName overrides the default pluralization for UserSettings.
func (UserSettings) TableName() string {
	return "user_settings"
}
