package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxTransactionsPerQuery caps ranged transaction listings.
const maxTransactionsPerQuery = 30

// balanceService aggregates balances on demand. There are no materialized
// totals anywhere; every result is a fold over the live transaction set, so
// the balance invariant holds by construction.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// GetBalance returns the income and expense sums over the inclusive
// carried-out range for the given wallet set, restricted to wallets the
// user owns in the given currency. An empty wallet set yields zero totals.
func (s *balanceService) GetBalance(userID, currencyID string, start, end int64, walletIDs []string) (*TotalBalance, error) {
	result := &TotalBalance{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	if len(walletIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		IsIncome bool            `json:"is_income"`
		Total    decimal.Decimal `json:"total"`
	}

	err := s.db.Raw(`
		SELECT t.is_income AS is_income, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		JOIN wallets w ON w.id = t.wallet_id AND w.deleted_at IS NULL
		WHERE t.deleted_at IS NULL
		  AND w.user_id = ?
		  AND w.currency_id = ?
		  AND t.carried_out BETWEEN ? AND ?
		  AND t.wallet_id IN ?
		GROUP BY t.is_income`,
		userID, currencyID, start, end, walletIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	for _, row := range rows {
		if row.IsIncome {
			result.TotalIncome = row.Total
		} else {
			result.TotalExpense = row.Total
		}
	}

	return result, nil
}

// GetCategoryBalances returns one row per category the user owns, with the
// income and expense sums over the inclusive carried-out range for the given
// wallet set. Categories without matching transactions appear with zero
// sums, which also covers the empty wallet set.
func (s *balanceService) GetCategoryBalances(userID string, start, end int64, walletIDs []string) ([]CategoryBalance, error) {
	// With no wallets selected no transaction can match, so the join is
	// short-circuited and every category comes back with zeros.
	transactionJoin := `LEFT JOIN transactions t ON 1 = 0`
	args := []interface{}{}
	if len(walletIDs) > 0 {
		transactionJoin = `LEFT JOIN transactions t ON t.id = cot.transaction_id
			AND t.deleted_at IS NULL
			AND t.carried_out BETWEEN ? AND ?
			AND t.wallet_id IN ?`
		args = append(args, start, end, walletIDs)
	}
	args = append(args, userID)

	query := `
		SELECT
			tc.id AS category_id,
			tc.name AS name,
			COALESCE(SUM(CASE WHEN t.is_income THEN t.amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN NOT t.is_income THEN t.amount ELSE 0 END), 0) AS expense
		FROM transaction_categories tc
		LEFT JOIN categories_of_transactions cot ON cot.category_id = tc.id AND cot.deleted_at IS NULL
		` + transactionJoin + `
		WHERE tc.user_id = ? AND tc.deleted_at IS NULL
		GROUP BY tc.id, tc.name
		ORDER BY tc.name ASC`

	var balances []CategoryBalance
	if err := s.db.Raw(query, args...).Scan(&balances).Error; err != nil {
		return nil, storeError(err)
	}

	return balances, nil
}

// monthlyRow is one raw transaction selected for the monthly fold.
type monthlyRow struct {
	WalletID     string          `json:"wallet_id"`
	WalletName   string          `json:"wallet_name"`
	CurrencyCode string          `json:"currency_code"`
	CarriedOut   int64           `json:"carried_out"`
	Amount       decimal.Decimal `json:"amount"`
	IsIncome     bool            `json:"is_income"`
}

// GetMonthlyWalletTotals returns one bucket per wallet and calendar month
// that has at least one transaction, optionally restricted to a currency.
// Bucketing happens here rather than in SQL so the month boundary is the
// same UTC rule on every database dialect.
func (s *balanceService) GetMonthlyWalletTotals(userID string, currencyCode *string) ([]MonthlyWalletTotal, error) {
	query := `
		SELECT
			w.id AS wallet_id,
			w.name AS wallet_name,
			c.code AS currency_code,
			t.carried_out AS carried_out,
			t.amount AS amount,
			t.is_income AS is_income
		FROM transactions t
		JOIN wallets w ON w.id = t.wallet_id AND w.deleted_at IS NULL
		JOIN currencies c ON c.id = w.currency_id
		WHERE w.user_id = ? AND t.deleted_at IS NULL`
	args := []interface{}{userID}

	if currencyCode != nil {
		query += ` AND c.code = ?`
		args = append(args, *currencyCode)
	}

	var rows []monthlyRow
	if err := s.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, storeError(err)
	}

	type bucketKey struct {
		walletID string
		year     int
		month    int
	}

	buckets := make(map[bucketKey]*MonthlyWalletTotal)
	for _, row := range rows {
		at := time.Unix(row.CarriedOut, 0).UTC()
		key := bucketKey{walletID: row.WalletID, year: at.Year(), month: int(at.Month())}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlyWalletTotal{
				WalletID:     row.WalletID,
				WalletName:   row.WalletName,
				CurrencyCode: row.CurrencyCode,
				Year:         key.year,
				Month:        key.month,
				Income:       decimal.Zero,
				Expense:      decimal.Zero,
			}
			buckets[key] = bucket
		}

		if row.IsIncome {
			bucket.Income = bucket.Income.Add(row.Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(row.Amount)
		}
	}

	totals := make([]MonthlyWalletTotal, 0, len(buckets))
	for _, bucket := range buckets {
		totals = append(totals, *bucket)
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].WalletID != totals[j].WalletID {
			return totals[i].WalletID < totals[j].WalletID
		}
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})

	return totals, nil
}

// GetTransactionsByRange returns the newest transactions in the inclusive
// carried-out range for the given wallet set, denormalized for display and
// capped at maxTransactionsPerQuery rows.
func (s *balanceService) GetTransactionsByRange(userID, currencyID string, start, end int64, walletIDs []string) ([]TransactionRow, error) {
	if len(walletIDs) == 0 {
		return []TransactionRow{}, nil
	}

	var rows []TransactionRow
	err := s.db.Raw(`
		SELECT
			t.id AS id,
			t.name AS name,
			t.wallet_id AS wallet_id,
			w.name AS wallet_name,
			c.code AS currency_code,
			c.symbol AS currency_symbol,
			t.amount AS amount,
			t.is_income AS is_income,
			t.carried_out AS carried_out
		FROM transactions t
		JOIN wallets w ON w.id = t.wallet_id AND w.deleted_at IS NULL
		JOIN currencies c ON c.id = w.currency_id
		WHERE t.deleted_at IS NULL
		  AND w.user_id = ?
		  AND w.currency_id = ?
		  AND t.carried_out BETWEEN ? AND ?
		  AND t.wallet_id IN ?
		ORDER BY t.carried_out DESC, t.created_at DESC
		LIMIT ?`,
		userID, currencyID, start, end, walletIDs, maxTransactionsPerQuery,
	).Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}

	if rows == nil {
		rows = []TransactionRow{}
	}

	return rows, nil
}
