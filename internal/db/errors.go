package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// ErrConstraintViolation indicates a write was rejected by a declared schema
// rule, such as a NOT NULL column receiving null or a duplicate primary key.
var ErrConstraintViolation = eris.New("constraint violation")

// IsConstraintViolation reports whether err stems from a schema constraint
// being violated, either as the package sentinel or as a raw driver error.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	if eris.Is(err, ErrConstraintViolation) || eris.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
