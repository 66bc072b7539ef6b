package extraction

import "github.com/shopspring/decimal"

var (
	// DefaultTaxRate is the VAT rate assumed when an invoice states no pre-tax amount.
	DefaultTaxRate = decimal.RequireFromString("0.08")
	// DefaultTolerance is the largest |total - (pre_tax + tax)| still reported as consistent.
	DefaultTolerance = decimal.NewFromInt(10)
)

type options struct {
	taxRate   decimal.Decimal
	tolerance decimal.Decimal
}

// Option tunes an extraction call.
type Option func(*options)

// WithTaxRate sets the fallback VAT rate as a fraction (0.08 for 8%).
func WithTaxRate(rate decimal.Decimal) Option {
	return func(o *options) {
		o.taxRate = rate
	}
}

// WithTolerance sets the reconciliation tolerance for invoices.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(o *options) {
		o.tolerance = tolerance
	}
}

func buildOptions(opts []Option) options {
	o := options{
		taxRate:   DefaultTaxRate,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
