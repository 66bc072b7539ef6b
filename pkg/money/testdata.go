package money

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator generates document-like test data using gofakeit.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a new test data generator with a random seed.
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(0), // Random seed
	}
}

// NewTestDataGeneratorWithSeed creates a generator with a specific seed for reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
	}
}

// Amount returns a whole-dong amount between min and max inclusive.
func (g *TestDataGenerator) Amount(min, max int64) *Money {
	if max <= min {
		return New(min, VND)
	}
	units := min + g.faker.Int64()%(max-min+1)
	if units < min {
		units += max - min + 1
	}
	return New(units, VND)
}

// PrintedAmount renders an amount the way it appears on a scanned document, randomly
// choosing dot or comma grouping and optionally a currency suffix.
func (g *TestDataGenerator) PrintedAmount(m *Money) string {
	sep := DotGroup
	if g.faker.Bool() {
		sep = CommaGroup
	}
	s := m.Grouped(sep)
	switch g.faker.Number(0, 2) {
	case 1:
		s += " VND"
	case 2:
		s += " đ"
	}
	return s
}

// NoiseLine returns a line of filler words without any digits.
func (g *TestDataGenerator) NoiseLine() string {
	return g.faker.LoremIpsumSentence(g.faker.Number(3, 12))
}

// NoiseLines returns n digit-free filler lines joined by newlines.
func (g *TestDataGenerator) NoiseLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = g.NoiseLine()
	}
	return strings.Join(lines, "\n")
}

// Decimal converts a generated amount for comparisons in tests.
func (g *TestDataGenerator) Decimal(m *Money) decimal.Decimal {
	return m.ToDecimal()
}
