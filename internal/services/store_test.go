package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"moneta/internal/testutil"
)

func TestStoreError(t *testing.T) {
	t.Run("closed_connection_is_unavailable", func(t *testing.T) {
		f, walletSvc := newWalletTestServices(t)
		user := testutil.CreateTestUser(t, f.db)

		sqlDB, err := f.db.DB()
		testutil.AssertNoError(t, err)
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close test database: %v", err)
		}

		_, err = walletSvc.GetWallets(user.ID)
		testutil.AssertAppError(t, err, "DB_UNAVAILABLE")
	})

	t.Run("bad_connection_is_unavailable", func(t *testing.T) {
		appErr := storeError(fmt.Errorf("exec: %w", driver.ErrBadConn))
		if appErr.Code != "DB_UNAVAILABLE" {
			t.Errorf("expected DB_UNAVAILABLE, got %s", appErr.Code)
		}
	})

	t.Run("statement_errors_stay_internal", func(t *testing.T) {
		appErr := storeError(errors.New("no such column: frobnicate"))
		if appErr.Code != "INTERNAL_ERROR" {
			t.Errorf("expected INTERNAL_ERROR, got %s", appErr.Code)
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm_duplicated_key", gorm.ErrDuplicatedKey, true},
		{"sqlite_unique", errors.New("UNIQUE constraint failed: users.email"), true},
		{"postgres_unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_category_user_name" (SQLSTATE 23505)`), true},
		{"other_error", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUniqueViolation(tc.err); got != tc.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
