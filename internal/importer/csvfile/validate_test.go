package csvfile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/salesledger/internal/currency"
	"github.com/mlipski/salesledger/internal/importer/csvfile"
)

func goodFields() map[string]string {
	return map[string]string{
		"transaction_id": "550e8400-e29b-41d4-a716-446655440000",
		"timestamp":      "2024-01-15T10:30:00Z",
		"amount":         "123.45",
		"currency":       "PLN",
		"customer_id":    "650e8400-e29b-41d4-a716-446655440001",
		"product_id":     "750e8400-e29b-41d4-a716-446655440002",
		"quantity":       "3",
	}
}

func TestValidateRow_Valid(t *testing.T) {
	row, errs := csvfile.ValidateRow(goodFields())
	require.Empty(t, errs)

	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", row.TransactionID.String())
	assert.Equal(t, currency.PLN, row.Currency)
	assert.Equal(t, 3, row.Quantity)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, 2024, row.Timestamp.Year())
}

func TestValidateRow_FieldFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m map[string]string)
		wantField string
	}{
		{
			name:      "BadTransactionID",
			mutate:    func(m map[string]string) { m["transaction_id"] = "not-a-uuid" },
			wantField: "transaction_id",
		},
		{
			name:      "BadCustomerID",
			mutate:    func(m map[string]string) { m["customer_id"] = "42" },
			wantField: "customer_id",
		},
		{
			name:      "BadProductID",
			mutate:    func(m map[string]string) { m["product_id"] = "" },
			wantField: "product_id",
		},
		{
			name:      "BadTimestamp",
			mutate:    func(m map[string]string) { m["timestamp"] = "15/01/2024" },
			wantField: "timestamp",
		},
		{
			name:      "ZeroAmount",
			mutate:    func(m map[string]string) { m["amount"] = "0.00" },
			wantField: "amount",
		},
		{
			name:      "NegativeAmount",
			mutate:    func(m map[string]string) { m["amount"] = "-5.00" },
			wantField: "amount",
		},
		{
			name:      "ThreeDecimalPlaces",
			mutate:    func(m map[string]string) { m["amount"] = "10.005" },
			wantField: "amount",
		},
		{
			name:      "TrailingZeroThirdPlace",
			mutate:    func(m map[string]string) { m["amount"] = "10.000" },
			wantField: "amount",
		},
		{
			name:      "NonNumericAmount",
			mutate:    func(m map[string]string) { m["amount"] = "ten" },
			wantField: "amount",
		},
		{
			name:      "UnknownCurrency",
			mutate:    func(m map[string]string) { m["currency"] = "GBP" },
			wantField: "currency",
		},
		{
			name:      "ZeroQuantity",
			mutate:    func(m map[string]string) { m["quantity"] = "0" },
			wantField: "quantity",
		},
		{
			name:      "NegativeQuantity",
			mutate:    func(m map[string]string) { m["quantity"] = "-1" },
			wantField: "quantity",
		},
		{
			name:      "FractionalQuantity",
			mutate:    func(m map[string]string) { m["quantity"] = "1.5" },
			wantField: "quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := goodFields()
			tt.mutate(fields)

			_, errs := csvfile.ValidateRow(fields)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidateRow_Boundaries(t *testing.T) {
	fields := goodFields()
	fields["amount"] = "0.01"
	fields["quantity"] = "1"

	row, errs := csvfile.ValidateRow(fields)
	require.Empty(t, errs)
	assert.True(t, row.Amount.Equal(decimal.RequireFromString("0.01")))
	assert.Equal(t, 1, row.Quantity)
}

func TestValidateRow_CurrencyWhitespace(t *testing.T) {
	fields := goodFields()
	fields["currency"] = "  EUR "

	row, errs := csvfile.ValidateRow(fields)
	require.Empty(t, errs)
	assert.Equal(t, currency.EUR, row.Currency)
}

func TestValidateRow_CollectsAllViolations(t *testing.T) {
	fields := goodFields()
	fields["amount"] = "0"
	fields["quantity"] = "zero"
	fields["currency"] = "JPY"

	_, errs := csvfile.ValidateRow(fields)
	require.Len(t, errs, 3)

	got := make(map[string]bool)
	for _, e := range errs {
		got[e.Field] = true
	}

	assert.True(t, got["amount"])
	assert.True(t, got["quantity"])
	assert.True(t, got["currency"])
}

func TestValidateRow_NaiveTimestampIsUTC(t *testing.T) {
	fields := goodFields()
	fields["timestamp"] = "2024-06-01T08:00:00"

	row, errs := csvfile.ValidateRow(fields)
	require.Empty(t, errs)
	assert.Equal(t, "2024-06-01T08:00:00Z", row.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}
