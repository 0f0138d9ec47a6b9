package repository

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/database"

	"github.com/jackc/pgx/v5"
)

// PostgresStore implements Store on top of a pgx pool.
type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(Repository) error) error {
	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(NewQueries(tx))
	})
}

// Queries implements Repository against any Querier (pool or transaction).
type Queries struct {
	q database.Querier
}

func NewQueries(q database.Querier) *Queries {
	return &Queries{q: q}
}

var _ Repository = (*Queries)(nil)

func translate(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
