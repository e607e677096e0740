package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique index on either
// supported driver.
func IsUniqueViolation(err error) bool {
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

// UniqueViolationColumn returns the offending column name when the driver
// reports one, or "".
func UniqueViolationColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ColumnName != "" {
			return pgErr.ColumnName
		}
		return columnFromConstraint(pgErr.ConstraintName)
	}
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		rest := strings.TrimSpace(msg[i+len("UNIQUE constraint failed: "):])
		if j := strings.IndexAny(rest, ", "); j >= 0 {
			rest = rest[:j]
		}
		if k := strings.LastIndexByte(rest, '.'); k >= 0 {
			return rest[k+1:]
		}
		return rest
	}
	return ""
}

// gorm names unique indexes idx_<table>_<column>.
func columnFromConstraint(name string) string {
	for _, col := range []string{"username", "email", "access_token", "refresh_token"} {
		if strings.HasSuffix(name, "_"+col) {
			return col
		}
	}
	return ""
}
