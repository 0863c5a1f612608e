package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. Names are unique per user.
func (s *categoryService) CreateCategory(userID, name string) (*models.TransactionCategory, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.TransactionCategory{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, storeError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.TransactionCategory{
		UserID: userID,
		Name:   name,
	}

	if err := s.db.Create(category).Error; err != nil {
		// A concurrent create of the same name can slip past the count
		// check and land on the unique index instead
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, storeError(err)
	}

	return category, nil
}

// GetCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.TransactionCategory], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.TransactionCategory{}).
		Where("user_id = ?", userID).
		Count(&totalItems).Error; err != nil {
		return nil, storeError(err)
	}

	var categories []models.TransactionCategory
	if err := s.db.Where("user_id = ?", userID).
		Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, storeError(err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoriesOfTransaction retrieves the categories attached to one
// transaction. Ownership is checked through the wallet, so a transaction in
// someone else's wallet is reported as not found.
func (s *categoryService) GetCategoriesOfTransaction(userID, transactionID string) ([]models.TransactionCategory, error) {
	var transaction models.Transaction
	err := s.db.Model(&models.Transaction{}).
		Joins("JOIN wallets ON wallets.id = transactions.wallet_id AND wallets.deleted_at IS NULL").
		Where("transactions.id = ? AND wallets.user_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, storeError(err)
	}

	var categories []models.TransactionCategory
	err = s.db.Model(&models.TransactionCategory{}).
		Joins("JOIN categories_of_transactions cot ON cot.category_id = transaction_categories.id AND cot.deleted_at IS NULL").
		Where("cot.transaction_id = ?", transactionID).
		Order("transaction_categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, storeError(err)
	}

	return categories, nil
}

// VerifyCategoriesTx checks within the given database handle that every
// category in categoryIDs exists and belongs to the user. Any missing or
// foreign-owned category fails the whole set.
func (s *categoryService) VerifyCategoriesTx(tx *gorm.DB, userID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	unique := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		unique[id] = struct{}{}
	}

	var count int64
	if err := tx.Model(&models.TransactionCategory{}).
		Where("user_id = ? AND id IN ?", userID, categoryIDs).
		Count(&count).Error; err != nil {
		return storeError(err)
	}

	if count != int64(len(unique)) {
		return apperrors.ErrCategoryNotFound
	}

	return nil
}
