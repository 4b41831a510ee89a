package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/salesledger/internal/currency"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    currency.Currency
		wantErr bool
	}{
		{name: "PLN", input: "PLN", want: currency.PLN},
		{name: "EUR", input: "EUR", want: currency.EUR},
		{name: "USD", input: "USD", want: currency.USD},
		{name: "SurroundingWhitespace", input: "  EUR \t", want: currency.EUR},
		{name: "Lowercase", input: "eur", wantErr: true},
		{name: "Unknown", input: "GBP", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.Parse(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRates_Convert(t *testing.T) {
	rates := currency.DefaultRates()

	eur := rates.Convert(decimal.RequireFromString("10.00"), currency.EUR)
	assert.True(t, eur.Equal(decimal.RequireFromString("43.00")), "got %s", eur)

	usd := rates.Convert(decimal.RequireFromString("2.50"), currency.USD)
	assert.True(t, usd.Equal(decimal.RequireFromString("10.00")), "got %s", usd)

	pln := rates.Convert(decimal.RequireFromString("99.99"), currency.PLN)
	assert.True(t, pln.Equal(decimal.RequireFromString("99.99")), "got %s", pln)
}

func TestRoundMoney_HalfUp(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"143.005", "143.01"},
		{"143.004", "143.00"},
		{"0.125", "0.13"},
		{"10", "10"},
	}

	for _, tt := range tests {
		got := currency.RoundMoney(decimal.RequireFromString(tt.input))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "round(%s) = %s, want %s", tt.input, got, tt.want)
	}
}
