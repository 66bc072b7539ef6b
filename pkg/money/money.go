// Package money provides currency-safe amount handling for extracted documents.
// Amounts on Vietnamese invoices and payment advices are whole dong, so most helpers
// work on integer minor units and render with regional digit grouping.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	VND = "VND" // Vietnamese Dong (no decimal places)
	USD = "USD" // US Dollar
)

// Grouping separators used by regional number formats.
const (
	CommaGroup = "," // 10,000,000
	DotGroup   = "." // 10.000.000
)

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and shopspring/decimal for precision calculations.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units and currency code.
// For VND and other zero-decimal currencies, amount is the actual value.
func New(amount int64, currencyCode string) *Money {
	return &Money{
		m: money.New(amount, currencyCode),
	}
}

// NewFromDecimal creates Money from a decimal.Decimal value, rounding half to even
// at the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(VND)
		currencyCode = VND
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	units := amount.Mul(multiplier).RoundBank(0).IntPart()

	return New(units, currencyCode)
}

// Amount returns the amount in minor units
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// Grouped renders the amount without currency symbol using the given thousands separator.
func (m *Money) Grouped(thousand string) string {
	if m == nil || m.m == nil {
		return "0"
	}
	currency := m.m.Currency()
	decimalSep := "."
	if thousand == DotGroup {
		decimalSep = ","
	}
	return money.NewFormatter(currency.Fraction, decimalSep, thousand, "", "1").Format(m.Amount())
}

// maxUnits is the largest amount that fits in go-money's int64 minor units.
var maxUnits = decimal.NewFromInt(math.MaxInt64)

// GroupInteger rounds v half to even and renders the whole part with the given
// thousands separator, e.g. GroupInteger(10000000, ",") == "10,000,000".
func GroupInteger(v float64, thousand string) string {
	return groupWhole(decimal.NewFromFloat(v), thousand)
}

// FormatVND renders an amount the way dong amounts are printed on documents:
// dot thousands separator, no decimal places. Values are rounded half to even.
func FormatVND(d decimal.Decimal) string {
	return groupWhole(d, DotGroup)
}

// FormatAmount prints whole amounts like FormatVND and keeps two decimal places,
// with a comma decimal mark, for amounts that carry a fraction (1234.56 -> "1.234,56").
func FormatAmount(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) || d.Abs().Mul(decimal.NewFromInt(100)).GreaterThan(maxUnits) {
		return FormatVND(d)
	}
	return NewFromDecimal(d, USD).Grouped(DotGroup)
}

func groupWhole(d decimal.Decimal, thousand string) string {
	d = d.RoundBank(0)
	if d.Abs().GreaterThan(maxUnits) {
		return groupDigits(d.String(), thousand)
	}
	return NewFromDecimal(d, VND).Grouped(thousand)
}

// groupDigits inserts thousand between every three digits of an integer string.
func groupDigits(digits, thousand string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	b.WriteString(sign)
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(thousand)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// BaseFromTaxInclusive extracts the pre-tax base from a tax-inclusive amount and rounds
// it half to even to whole units. rate is a fraction (0.08 for 8%).
func BaseFromTaxInclusive(total decimal.Decimal, rate decimal.Decimal) (decimal.Decimal, error) {
	divisor := decimal.NewFromInt(1).Add(rate)
	if !divisor.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid tax rate: %s", rate)
	}
	return total.DivRound(divisor, 16).RoundBank(0), nil
}
