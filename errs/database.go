package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Persistence failures as seen by handlers.
var (
	ErrNotFound                  = errors.New("not found")
	ErrDatabaseQuery             = errors.New("database query failed")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// IsDuplicateKey reports whether cause is a unique-constraint violation from any supported driver.
func IsDuplicateKey(cause error) bool {
	if errors.Is(cause, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(cause, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(cause.Error(), "duplicate key")
}

// IsForeignKeyViolation reports whether cause is a foreign-key violation from any supported driver.
func IsForeignKeyViolation(cause error) bool {
	if errors.Is(cause, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(cause, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// NewDatabaseError creates a new database error with details about the operation.
// Known conditions become client errors; anything else is a 500.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause == nil {
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrDatabaseQuery,
			Details:    details,
		}
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return NewNotFound(entity)
	case IsDuplicateKey(cause):
		return &ApiErr{
			StatusCode: http.StatusUnprocessableEntity,
			err:        fmt.Errorf("Duplicate entry for %s: %w", entity, ErrUniqueConstraintViolation),
			Cause:      cause,
		}
	case IsForeignKeyViolation(cause):
		return &ApiErr{
			StatusCode: http.StatusUnprocessableEntity,
			err:        fmt.Errorf("invalid reference in %s: %w", entity, ErrForeignKeyConstraint),
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}
