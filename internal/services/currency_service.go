package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// currencyService serves the read-only currency reference data.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// GetCurrencies returns all seeded currencies ordered by code.
func (s *currencyService) GetCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code ASC").Find(&currencies).Error; err != nil {
		return nil, storeError(err)
	}
	return currencies, nil
}

// GetCurrencyByID retrieves a currency by ID
func (s *currencyService) GetCurrencyByID(id string) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("id = ?", id).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, storeError(err)
	}
	return &currency, nil
}
