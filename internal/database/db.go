package database

import (
	"errors"

	"github.com/BradenHooton/userboard/internal/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ClientStateTable holds small key/value pairs such as the revalidation token
const ClientStateTable = "client_state"

// PSQL builds statements with PostgreSQL $n placeholders
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// MapPostgresError translates driver errors into model sentinel errors
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "22001": // not_null_violation, string_data_right_truncation
			return models.ErrBadRequest
		}
	}

	return err
}
