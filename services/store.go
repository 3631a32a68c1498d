package services

import (
	"errors"
	"strings"

	"restaurant-menu-api/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isDuplicateKey reports whether err is a unique index violation from any
// supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateWrite maps a store write error to a Conflict when it is a
// uniqueness violation and leaves anything else untouched.
func translateWrite(err error, conflictMsg string) error {
	if isDuplicateKey(err) {
		return apperr.Conflict(conflictMsg, err)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
