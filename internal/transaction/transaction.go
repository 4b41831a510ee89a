package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
)

var (
	// ErrNotFound is returned when a transaction does not exist.
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicate is returned when a transaction with the same id
	// already exists.
	ErrDuplicate = errors.New("transaction already exists")
)

// Transaction represents a single sale. Transactions are immutable once
// created; the id is supplied by the caller and unique across the store.
type Transaction struct {
	ID         uuid.UUID
	Timestamp  time.Time
	Amount     decimal.Decimal
	Currency   currency.Currency
	Quantity   int
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Customer is materialized on first reference by a transaction.
// It carries no attributes beyond its caller-supplied identifier.
type Customer struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Product is materialized on first reference by a transaction.
type Product struct {
	ID        uuid.UUID
	CreatedAt time.Time
}
