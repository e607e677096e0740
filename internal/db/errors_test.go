package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pg := &pgconn.PgError{Code: "23505", ConstraintName: "idx_user_email"}
	cases := []struct {
		err  error
		want bool
		col  string
	}{
		{nil, false, ""},
		{errors.New("boom"), false, ""},
		{gorm.ErrDuplicatedKey, true, ""},
		{fmt.Errorf("create: %w", pg), true, "email"},
		{&pgconn.PgError{Code: "23503"}, false, ""},
		{errors.New("UNIQUE constraint failed: user.username"), true, "username"},
	}
	for i, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("case %d: IsUniqueViolation=%v want %v", i, got, tc.want)
		}
		if got := UniqueViolationColumn(tc.err); got != tc.col {
			t.Fatalf("case %d: column=%q want %q", i, got, tc.col)
		}
	}
}
