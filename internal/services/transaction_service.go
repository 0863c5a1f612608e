package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	walletService   WalletServicer
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, walletService WalletServicer, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		walletService:   walletService,
		categoryService: categoryService,
	}
}

// CreateTransaction records a new income or expense entry with its category
// links. Wallet ownership and category ownership are re-verified inside the
// same database transaction as the inserts, so a failure at any step leaves
// no rows behind.
func (s *transactionService) CreateTransaction(
	userID string,
	name string,
	walletID string,
	categoryIDs []string,
	carriedOut int64,
	amount decimal.Decimal,
	isIncome bool,
) (*models.Transaction, error) {
	// Validate input
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name is required")
	}
	if walletID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet ID is required")
	}

	transaction := &models.Transaction{
		WalletID:   walletID,
		Name:       name,
		Amount:     amount,
		IsIncome:   isIncome,
		CarriedOut: carriedOut,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.walletService.GetWalletTx(tx, userID, walletID); err != nil {
			return err
		}

		if err := s.categoryService.VerifyCategoriesTx(tx, userID, categoryIDs); err != nil {
			return err
		}

		if err := tx.Create(transaction).Error; err != nil {
			return storeError(err)
		}

		for _, categoryID := range categoryIDs {
			link := &models.CategoryOfTransaction{
				TransactionID: transaction.ID,
				CategoryID:    categoryID,
			}
			if err := tx.Create(link).Error; err != nil {
				return storeError(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// getTransactionTx loads a transaction within the given database handle,
// checking ownership through the wallet join. Missing and foreign-owned
// transactions are indistinguishable to the caller.
func (s *transactionService) getTransactionTx(tx *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := tx.Model(&models.Transaction{}).
		Joins("JOIN wallets ON wallets.id = transactions.wallet_id AND wallets.deleted_at IS NULL").
		Where("transactions.id = ? AND wallets.user_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, storeError(err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. An empty update is rejected
// before any store access. Moving the transaction to another wallet
// re-verifies ownership of the target wallet, and a new category set
// replaces the previous links entirely. Since balances are aggregated on
// demand, the next range query reflects the new wallet, period, and
// categories without further bookkeeping.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	if fields.Empty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field is required")
	}

	if fields.Amount != nil && !fields.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fields.Name != nil && *fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction name cannot be empty")
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.getTransactionTx(tx, userID, transactionID)
		if err != nil {
			return err
		}

		if fields.WalletID != nil && *fields.WalletID != transaction.WalletID {
			if _, err := s.walletService.GetWalletTx(tx, userID, *fields.WalletID); err != nil {
				return err
			}
		}

		updates := make(map[string]interface{})
		if fields.Name != nil {
			updates["name"] = *fields.Name
		}
		if fields.WalletID != nil {
			updates["wallet_id"] = *fields.WalletID
		}
		if fields.Amount != nil {
			updates["amount"] = *fields.Amount
		}
		if fields.CarriedOut != nil {
			updates["carried_out"] = *fields.CarriedOut
		}
		if fields.IsIncome != nil {
			updates["is_income"] = *fields.IsIncome
		}

		if len(updates) > 0 {
			if err := tx.Model(transaction).Updates(updates).Error; err != nil {
				return storeError(err)
			}
		}

		if fields.CategoryIDs != nil {
			if err := s.categoryService.VerifyCategoriesTx(tx, userID, *fields.CategoryIDs); err != nil {
				return err
			}

			if err := tx.Where("transaction_id = ?", transaction.ID).
				Delete(&models.CategoryOfTransaction{}).Error; err != nil {
				return storeError(err)
			}

			for _, categoryID := range *fields.CategoryIDs {
				link := &models.CategoryOfTransaction{
					TransactionID: transaction.ID,
					CategoryID:    categoryID,
				}
				if err := tx.Create(link).Error; err != nil {
					return storeError(err)
				}
			}
		}

		// Reload so the caller sees the applied state
		result, err = s.getTransactionTx(tx, userID, transaction.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTransaction soft-deletes a transaction. The row drops out of the
// default query scope, so a second delete reports not found and the
// aggregates are adjusted exactly once.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.getTransactionTx(tx, userID, transactionID)
		if err != nil {
			return err
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return storeError(err)
		}

		return nil
	})
}
