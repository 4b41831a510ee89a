package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
	"github.com/mlipski/salesledger/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`, id)
}

func (s *Store) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, id)
}

func (s *Store) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}

	return exists, nil
}

// rateCase converts amounts to the base currency inside the aggregate
// query. Rates are bound as parameters $2..$4 so the table stays a
// configuration value, not SQL.
const rateCase = `CASE t.currency
		WHEN 'PLN' THEN $2::numeric
		WHEN 'EUR' THEN $3::numeric
		WHEN 'USD' THEN $4::numeric
		ELSE 1
	END`

func rateArgs(id uuid.UUID, rates currency.Rates) []any {
	return []any{
		id,
		rates.Rate(currency.PLN),
		rates.Rate(currency.EUR),
		rates.Rate(currency.USD),
	}
}

// windowClause appends inclusive timestamp bounds, continuing the
// placeholder numbering from argIdx.
func windowClause(window report.Window, argIdx int) (string, []any) {
	clause := ""

	var args []any

	if window.Start != nil {
		clause += fmt.Sprintf(" AND t.timestamp >= $%d", argIdx)

		args = append(args, *window.Start)
		argIdx++
	}

	if window.End != nil {
		clause += fmt.Sprintf(" AND t.timestamp <= $%d", argIdx)

		args = append(args, *window.End)
	}

	return clause, args
}

func (s *Store) CustomerTotals(ctx context.Context, id uuid.UUID, window report.Window, rates currency.Rates) (report.CustomerTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(t.amount * ` + rateCase + `), 0),
			COUNT(DISTINCT t.product_id),
			MAX(t.timestamp)
		FROM transactions t
		WHERE t.customer_id = $1`

	clause, windowArgs := windowClause(window, 5)
	query += clause

	args := append(rateArgs(id, rates), windowArgs...)

	var (
		totals report.CustomerTotals
		total  decimal.Decimal
		last   sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&total, &totals.UniqueProducts, &last)
	if err != nil {
		return report.CustomerTotals{}, fmt.Errorf("aggregating customer transactions: %w", err)
	}

	totals.TotalAmount = total
	if last.Valid {
		totals.LastTransaction = &last.Time
	}

	return totals, nil
}

func (s *Store) ProductTotals(ctx context.Context, id uuid.UUID, window report.Window, rates currency.Rates) (report.ProductTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(t.quantity), 0),
			COALESCE(SUM(t.amount * ` + rateCase + `), 0),
			COUNT(DISTINCT t.customer_id)
		FROM transactions t
		WHERE t.product_id = $1`

	clause, windowArgs := windowClause(window, 5)
	query += clause

	args := append(rateArgs(id, rates), windowArgs...)

	var (
		totals  report.ProductTotals
		revenue decimal.Decimal
	)

	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&totals.TotalQuantity, &revenue, &totals.UniqueCustomers)
	if err != nil {
		return report.ProductTotals{}, fmt.Errorf("aggregating product transactions: %w", err)
	}

	totals.TotalRevenue = revenue

	return totals, nil
}
