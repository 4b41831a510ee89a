package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/customer-summary/{id}", h.customerSummary)
	r.Get("/product-summary/{id}", h.productSummary)
}

type customerSummaryResponse struct {
	CustomerID          uuid.UUID       `json:"customer_id"`
	TotalAmountPLN      decimal.Decimal `json:"total_amount_pln"`
	UniqueProductsCount int             `json:"unique_products_count"`
	LastTransactionDate *time.Time      `json:"last_transaction_date"`
}

type productSummaryResponse struct {
	ProductID            uuid.UUID       `json:"product_id"`
	TotalQuantitySold    int64           `json:"total_quantity_sold"`
	TotalRevenuePLN      decimal.Decimal `json:"total_revenue_pln"`
	UniqueCustomersCount int             `json:"unique_customers_count"`
}

func (h *Handler) customerSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.svc.CustomerSummary(r.Context(), id, window)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := customerSummaryResponse{
		CustomerID:          summary.CustomerID,
		TotalAmountPLN:      summary.TotalAmountPLN,
		UniqueProductsCount: summary.UniqueProducts,
		LastTransactionDate: summary.LastTransaction,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) productSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.svc.ProductSummary(r.Context(), id, window)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := productSummaryResponse{
		ProductID:            summary.ProductID,
		TotalQuantitySold:    summary.TotalQuantity,
		TotalRevenuePLN:      summary.TotalRevenuePLN,
		UniqueCustomersCount: summary.UniqueCustomers,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func windowFromQuery(r *http.Request) (report.Window, error) {
	var window report.Window

	q := r.URL.Query()

	if s := q.Get("start_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return report.Window{}, errors.New("invalid start_date")
		}
		window.Start = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return report.Window{}, errors.New("invalid end_date")
		}
		window.End = &t
	}

	if window.Start != nil && window.End != nil && window.Start.After(*window.End) {
		return report.Window{}, errors.New("start_date must be before end_date")
	}

	return window, nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}
