package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/silvacore/patrimony/pkg/serrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateDBError maps postgres constraint violations onto the domain
// sentinels for the operation at hand. Errors it does not recognize pass
// through untouched.
func translateDBError(err error, duplicate, reference *serrors.BaseError) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if duplicate != nil {
			return duplicate
		}
	case pgForeignKeyViolation:
		if reference != nil {
			return reference
		}
	}
	return err
}
