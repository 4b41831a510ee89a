package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction persists a new transaction, materializing its
	// customer and product if they do not exist yet. Returns ErrDuplicate
	// when the id is already taken.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// ListTransactions returns one page of transactions plus the total
	// matching count.
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ID         uuid.UUID
	Timestamp  time.Time
	Amount     decimal.Decimal
	Currency   currency.Currency
	Quantity   int
	CustomerID uuid.UUID
	ProductID  uuid.UUID
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type ListFilter struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	Page       int
	PageSize   int
}

// Offset returns the row offset for the current page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}

	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

type Page struct {
	Items      []*Transaction
	Total      int
	PageNumber int
	PageSize   int
}

func (p Page) TotalPages() int {
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Page) HasNext() bool     { return p.PageNumber < p.TotalPages() }
func (p Page) HasPrevious() bool { return p.PageNumber > 1 }

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		ID:         params.ID,
		Timestamp:  params.Timestamp,
		Amount:     params.Amount,
		Currency:   params.Currency,
		Quantity:   params.Quantity,
		CustomerID: params.CustomerID,
		ProductID:  params.ProductID,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter.normalize()

	txs, total, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:      txs,
		Total:      total,
		PageNumber: filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}
