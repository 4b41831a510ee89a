package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlipski/salesledger/internal/currency"
	"github.com/mlipski/salesledger/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.transaction_id, t.timestamp, t.amount, t.currency, t.quantity,
	t.customer_id, t.product_id, t.created_at, t.updated_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var currencyStr string

	if err := s.Scan(
		&tx.ID, &tx.Timestamp, &tx.Amount, &currencyStr, &tx.Quantity,
		&tx.CustomerID, &tx.ProductID, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Currency = currency.Currency(currencyStr)

	return &tx, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateTransaction inserts one transaction, materializing its customer and
// product rows first. All three statements run in one database transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	const ensureCustomer = `INSERT INTO customers (customer_id) VALUES ($1) ON CONFLICT (customer_id) DO NOTHING`
	if _, err := dbTx.ExecContext(ctx, ensureCustomer, tx.CustomerID); err != nil {
		return fmt.Errorf("ensuring customer: %w", err)
	}

	const ensureProduct = `INSERT INTO products (product_id) VALUES ($1) ON CONFLICT (product_id) DO NOTHING`
	if _, err := dbTx.ExecContext(ctx, ensureProduct, tx.ProductID); err != nil {
		return fmt.Errorf("ensuring product: %w", err)
	}

	const insert = `
		INSERT INTO transactions (transaction_id, timestamp, amount, currency, quantity, customer_id, product_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err = dbTx.QueryRowContext(ctx, insert,
		tx.ID,
		tx.Timestamp,
		tx.Amount,
		string(tx.Currency),
		tx.Quantity,
		tx.CustomerID,
		tx.ProductID,
	).Scan(&tx.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return transaction.ErrDuplicate
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.transaction_id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	where := " WHERE 1=1"

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		where += fmt.Sprintf(" AND t.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.ProductID != nil {
		where += fmt.Sprintf(" AND t.product_id = $%d", argIdx)

		args = append(args, *filter.ProductID)
		argIdx++
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM transactions t` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t` + where +
		fmt.Sprintf(" ORDER BY t.timestamp DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, total, nil
}
