package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx.
// Repository methods that must run on the caller's transaction take one
// explicitly, so a compound mutation (itinerary CAS + child replace +
// snapshot append + audit insert) commits or rolls back as a unit.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// TxManager runs a function inside a database transaction.
type TxManager interface {
	InTx(ctx context.Context, fn func(q Querier) error) error
}

type PGTxManager struct {
	db *pgxpool.Pool
}

func NewTxManager(db *pgxpool.Pool) *PGTxManager {
	return &PGTxManager{db: db}
}

func (m *PGTxManager) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ TxManager = (*PGTxManager)(nil)
