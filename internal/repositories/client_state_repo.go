package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/userboard/internal/database"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientStateRepository keeps small client-side values (the revalidation
// token) in the client_state table
type ClientStateRepository struct {
	pool *pgxpool.Pool
}

func NewClientStateRepository(db *database.DB) *ClientStateRepository {
	return &ClientStateRepository{pool: db.Pool}
}

// Get returns the value stored under key, or models.ErrNotFound
func (r *ClientStateRepository) Get(ctx context.Context, key string) (string, error) {
	query, args, err := database.PSQL.
		Select("value").
		From(database.ClientStateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var value string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return "", database.MapPostgresError(err)
	}

	return value, nil
}

// Set stores value under key, replacing any previous value
func (r *ClientStateRepository) Set(ctx context.Context, key, value string) error {
	query, args, err := database.PSQL.
		Insert(database.ClientStateTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return database.MapPostgresError(err)
}

// Delete removes key. Deleting a missing key is not an error.
func (r *ClientStateRepository) Delete(ctx context.Context, key string) error {
	query, args, err := database.PSQL.
		Delete(database.ClientStateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return database.MapPostgresError(err)
}
