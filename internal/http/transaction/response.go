package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
	"github.com/mlipski/salesledger/internal/transaction"
)

type transactionResponse struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Timestamp     time.Time         `json:"timestamp"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      currency.Currency `json:"currency"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	ProductID     uuid.UUID         `json:"product_id"`
	Quantity      int               `json:"quantity"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

type pageResponse struct {
	Items       []transactionResponse `json:"items"`
	Total       int                   `json:"total"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	TotalPages  int                   `json:"total_pages"`
	HasNext     bool                  `json:"has_next"`
	HasPrevious bool                  `json:"has_previous"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: tx.ID,
		Timestamp:     tx.Timestamp,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		CustomerID:    tx.CustomerID,
		ProductID:     tx.ProductID,
		Quantity:      tx.Quantity,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toPageResponse(page *transaction.Page) pageResponse {
	items := make([]transactionResponse, 0, len(page.Items))
	for _, tx := range page.Items {
		items = append(items, toResponse(tx))
	}

	return pageResponse{
		Items:       items,
		Total:       page.Total,
		Page:        page.PageNumber,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages(),
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}
}
