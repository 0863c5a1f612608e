package models

// TransactionCategory represents a user-defined label for transactions.
// Names are unique per user.
type TransactionCategory struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_category_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_category_user_name" json:"name"`
}

// TableName overrides the default pluralization for TransactionCategory.
func (TransactionCategory) TableName() string {
	return "transaction_categories"
}

// CategoryOfTransaction links a transaction to a category. A transaction
// may carry any number of categories, including none.
type CategoryOfTransaction struct {
	Base
	TransactionID string `gorm:"type:uuid;not null;index" json:"transaction_id"`
	CategoryID    string `gorm:"type:uuid;not null;index" json:"category_id"`

	// Relationships
	Category TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName overrides the default pluralization for CategoryOfTransaction.
func (CategoryOfTransaction) TableName() string {
	return "categories_of_transactions"
}
