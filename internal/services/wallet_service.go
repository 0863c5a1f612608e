package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// walletService handles wallet-related business logic.
type walletService struct {
	db              *gorm.DB
	currencyService CurrencyServicer
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB, currencyService CurrencyServicer) WalletServicer {
	return &walletService{db: db, currencyService: currencyService}
}

// CreateWallet creates a new wallet denominated in an existing currency.
func (s *walletService) CreateWallet(userID, name, currencyID string, untrackedBalance decimal.Decimal) (*models.Wallet, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}

	// Referencing a missing currency is a referential failure, not a validation one
	if _, err := s.currencyService.GetCurrencyByID(currencyID); err != nil {
		return nil, err
	}

	wallet := &models.Wallet{
		UserID:           userID,
		Name:             name,
		CurrencyID:       currencyID,
		UntrackedBalance: untrackedBalance,
	}

	if err := s.db.Create(wallet).Error; err != nil {
		return nil, storeError(err)
	}

	return wallet, nil
}

// GetWallets retrieves all wallets of a user.
func (s *walletService) GetWallets(userID string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&wallets).Error; err != nil {
		return nil, storeError(err)
	}
	return wallets, nil
}

// GetWalletTableRows retrieves the wallets of a user joined with their
// transaction aggregates and currency display data, optionally filtered by
// currency. The net balance is untracked_balance + income - expense and is
// computed here, never stored.
func (s *walletService) GetWalletTableRows(userID string, currencyID *string) ([]WalletTableRow, error) {
	query := `
		SELECT
			w.id AS wallet_id,
			w.name AS name,
			w.currency_id AS currency_id,
			c.code AS currency_code,
			c.symbol AS currency_symbol,
			w.untracked_balance AS untracked_balance,
			COALESCE(SUM(CASE WHEN t.is_income THEN t.amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN NOT t.is_income THEN t.amount ELSE 0 END), 0) AS total_expense,
			COUNT(t.id) AS transaction_count
		FROM wallets w
		JOIN currencies c ON c.id = w.currency_id
		LEFT JOIN transactions t ON t.wallet_id = w.id AND t.deleted_at IS NULL
		WHERE w.user_id = ? AND w.deleted_at IS NULL`
	args := []interface{}{userID}

	if currencyID != nil {
		query += ` AND w.currency_id = ?`
		args = append(args, *currencyID)
	}

	query += `
		GROUP BY w.id, w.name, w.currency_id, c.code, c.symbol, w.untracked_balance, w.created_at
		ORDER BY w.created_at ASC`

	var rows []WalletTableRow
	if err := s.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}

	for i := range rows {
		rows[i].Balance = rows[i].UntrackedBalance.Add(rows[i].TotalIncome).Sub(rows[i].TotalExpense)
	}

	return rows, nil
}

// GetWalletByID retrieves a wallet by ID for a specific user
func (s *walletService) GetWalletByID(userID, walletID string) (*models.Wallet, error) {
	return s.GetWalletTx(s.db, userID, walletID)
}

// GetWalletTx retrieves a wallet by ID within the given database handle so
// ownership checks can run inside the same transaction as the effect they
// guard. A wallet that does not exist and a wallet owned by someone else
// produce the same error.
func (s *walletService) GetWalletTx(tx *gorm.DB, userID, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, storeError(err)
	}
	return &wallet, nil
}

// UpdateWallet applies a partial update to a wallet. At least one field must
// be set; an empty update is rejected before any store access. The ownership
// check and the update run in one database transaction so a concurrent
// delete cannot land between them.
func (s *walletService) UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error) {
	if fields.Empty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field is required")
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		if *fields.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name cannot be empty")
		}
		updates["name"] = *fields.Name
	}
	if fields.UntrackedBalance != nil {
		updates["untracked_balance"] = *fields.UntrackedBalance
	}

	var wallet *models.Wallet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = s.GetWalletTx(tx, userID, walletID)
		if err != nil {
			return err
		}

		if err := tx.Model(wallet).Updates(updates).Error; err != nil {
			return storeError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// DeleteWallet soft-deletes a wallet together with all of its transactions
// in one database transaction. A second delete finds nothing and reports
// the wallet as not found.
func (s *walletService) DeleteWallet(userID, walletID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := s.GetWalletTx(tx, userID, walletID)
		if err != nil {
			return err
		}

		if err := tx.Where("wallet_id = ?", wallet.ID).Delete(&models.Transaction{}).Error; err != nil {
			return storeError(err)
		}

		if err := tx.Delete(wallet).Error; err != nil {
			return storeError(err)
		}

		return nil
	})
}
