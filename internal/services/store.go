package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
)

// storeError classifies a failed store operation. Connection and transport
// failures surface as DB_UNAVAILABLE so the caller knows a retry may succeed;
// everything else stays an opaque internal error.
func storeError(err error) *apperrors.AppError {
	if isStoreUnavailable(err) {
		return apperrors.Wrap(apperrors.ErrDatabaseUnavailable, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// isStoreUnavailable reports whether err is a connection-level failure
// rather than a statement-level one.
func isStoreUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// database/sql does not export its closed-pool error, and the pg driver
	// reports refused/reset connections as plain errors.
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset")
}

// isUniqueViolation reports whether err is a unique-constraint violation
// from the underlying driver, for mapping races that slip past the
// pre-insert duplicate checks onto the CONFLICT sentinels.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
