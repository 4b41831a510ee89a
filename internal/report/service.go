// Package report computes currency-normalized summaries per customer and
// per product. All operations are read-only and idempotent.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
)

// ErrNotFound is returned when the requested customer or product has no
// entity row at all. An existing entity with zero transactions in the
// requested window yields zero-valued aggregates instead.
var ErrNotFound = errors.New("report subject not found")

// Window is an optional date range, inclusive on both ends. A nil bound
// means unbounded on that side.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// CustomerTotals is the raw aggregate the store returns, already converted
// to the base currency but not yet rounded.
type CustomerTotals struct {
	TotalAmount     decimal.Decimal
	UniqueProducts  int
	LastTransaction *time.Time
}

// ProductTotals is the raw per-product aggregate from the store.
type ProductTotals struct {
	TotalQuantity   int64
	TotalRevenue    decimal.Decimal
	UniqueCustomers int
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
	CustomerTotals(ctx context.Context, id uuid.UUID, window Window, rates currency.Rates) (CustomerTotals, error)
	ProductTotals(ctx context.Context, id uuid.UUID, window Window, rates currency.Rates) (ProductTotals, error)
}

// CustomerSummary is the spending report for one customer, in the base
// currency.
type CustomerSummary struct {
	CustomerID      uuid.UUID
	TotalAmountPLN  decimal.Decimal
	UniqueProducts  int
	LastTransaction *time.Time
}

// ProductSummary is the sales report for one product.
type ProductSummary struct {
	ProductID       uuid.UUID
	TotalQuantity   int64
	TotalRevenuePLN decimal.Decimal
	UniqueCustomers int
}

type Service struct {
	repo  Repository
	rates currency.Rates
}

// NewService builds the aggregator with an explicit rate table so tests
// can substitute alternate rates.
func NewService(repo Repository, rates currency.Rates) *Service {
	return &Service{repo: repo, rates: rates}
}

func (s *Service) CustomerSummary(ctx context.Context, id uuid.UUID, window Window) (*CustomerSummary, error) {
	exists, err := s.repo.CustomerExists(ctx, id)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrNotFound
	}

	totals, err := s.repo.CustomerTotals(ctx, id, window, s.rates)
	if err != nil {
		return nil, err
	}

	return &CustomerSummary{
		CustomerID:      id,
		TotalAmountPLN:  currency.RoundMoney(totals.TotalAmount),
		UniqueProducts:  totals.UniqueProducts,
		LastTransaction: totals.LastTransaction,
	}, nil
}

func (s *Service) ProductSummary(ctx context.Context, id uuid.UUID, window Window) (*ProductSummary, error) {
	exists, err := s.repo.ProductExists(ctx, id)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, ErrNotFound
	}

	totals, err := s.repo.ProductTotals(ctx, id, window, s.rates)
	if err != nil {
		return nil, err
	}

	return &ProductSummary{
		ProductID:       id,
		TotalQuantity:   totals.TotalQuantity,
		TotalRevenuePLN: currency.RoundMoney(totals.TotalRevenue),
		UniqueCustomers: totals.UniqueCustomers,
	}, nil
}
