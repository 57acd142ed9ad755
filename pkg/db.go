package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UniqueViolationConstraint returns the violated constraint name, if err is a unique violation
func UniqueViolationConstraint(err error) (string, bool) {
	return violatedConstraint(err, pgUniqueViolation)
}

// ForeignKeyViolationConstraint returns the violated constraint name, if err is a foreign key violation
func ForeignKeyViolationConstraint(err error) (string, bool) {
	return violatedConstraint(err, pgForeignKeyViolation)
}

func violatedConstraint(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
