package csvfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
)

// ValidRow is one row that passed all field checks.
type ValidRow struct {
	TransactionID uuid.UUID
	Timestamp     time.Time
	Amount        decimal.Decimal
	Currency      currency.Currency
	Quantity      int
	CustomerID    uuid.UUID
	ProductID     uuid.UUID
}

// FieldError names a single offending field of a row.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// timestampLayouts are the accepted ISO-8601 shapes, tried in order.
// Layouts without an offset are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ValidateRow checks every field of a raw row independently and returns
// either the typed row or the full list of violations. It never stops at
// the first failure, so a row with a bad amount and a bad quantity reports
// both.
func ValidateRow(fields map[string]string) (ValidRow, []FieldError) {
	var (
		row  ValidRow
		errs []FieldError
	)

	fail := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	parseID := func(field string) uuid.UUID {
		id, err := uuid.Parse(strings.TrimSpace(fields[field]))
		if err != nil {
			fail(field, "invalid UUID: %q", fields[field])
			return uuid.Nil
		}

		return id
	}

	row.TransactionID = parseID(ColTransactionID)
	row.CustomerID = parseID(ColCustomerID)
	row.ProductID = parseID(ColProductID)

	ts, ok := parseTimestamp(fields[ColTimestamp])
	if !ok {
		fail(ColTimestamp, "invalid ISO-8601 date-time: %q", fields[ColTimestamp])
	} else {
		row.Timestamp = ts
	}

	amount, err := parseAmount(fields[ColAmount])
	if err != nil {
		fail(ColAmount, "%s", err)
	} else {
		row.Amount = amount
	}

	cur, err := currency.Parse(fields[ColCurrency])
	if err != nil {
		fail(ColCurrency, "must be one of PLN, EUR, USD, got %q", fields[ColCurrency])
	} else {
		row.Currency = cur
	}

	qty, err := strconv.Atoi(strings.TrimSpace(fields[ColQuantity]))
	switch {
	case err != nil:
		fail(ColQuantity, "invalid integer: %q", fields[ColQuantity])
	case qty <= 0:
		fail(ColQuantity, "must be greater than zero, got %d", qty)
	default:
		row.Quantity = qty
	}

	if len(errs) > 0 {
		return ValidRow{}, errs
	}

	return row, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount parses a fixed-point decimal that must be strictly positive
// and carry at most 2 fractional digits. "12.345" is rejected even though
// it is numerically representable, and so is "12.340".
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid decimal: %q", s)
	}

	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("must be greater than zero, got %s", d)
	}

	if d.Exponent() < -2 {
		return decimal.Decimal{}, fmt.Errorf("must have at most 2 decimal places, got %s", d)
	}

	return d, nil
}
