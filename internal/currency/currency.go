package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the supported transaction currencies.
type Currency string

const (
	PLN Currency = "PLN"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// Base is the currency all monetary aggregates are reported in.
const Base = PLN

// Parse returns the currency matching s after trimming surrounding whitespace.
func Parse(s string) (Currency, error) {
	switch c := Currency(strings.TrimSpace(s)); c {
	case PLN, EUR, USD:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported currency: %q", s)
	}
}

// Rates maps a currency to its exchange rate against the base currency.
type Rates map[Currency]decimal.Decimal

// DefaultRates returns the fixed rate table against PLN.
func DefaultRates() Rates {
	return Rates{
		PLN: decimal.NewFromInt(1),
		EUR: decimal.RequireFromString("4.3"),
		USD: decimal.RequireFromString("4.0"),
	}
}

// Rate returns the base-currency rate for c. Unknown currencies fall back
// to 1.0, matching the behaviour of the aggregate queries.
func (r Rates) Rate(c Currency) decimal.Decimal {
	if rate, ok := r[c]; ok {
		return rate
	}

	return decimal.NewFromInt(1)
}

// Convert returns amount expressed in the base currency.
func (r Rates) Convert(amount decimal.Decimal, c Currency) decimal.Decimal {
	return amount.Mul(r.Rate(c))
}

// RoundMoney rounds d to 2 decimal places using round-half-up.
// Amounts are non-negative, so decimal's round-half-away-from-zero
// is equivalent.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
