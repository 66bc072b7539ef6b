package extraction

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/docscan/pkg/money"
)

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !decimal.NewFromInt(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("amount mismatch: want %d, got %s", want, got), msgAndArgs...)
	}
}

const sampleInvoice = `HÓA ĐƠN GIÁ TRỊ GIA TĂNG
Ký hiệu: 1C24TAA
Số: 123
Ngày 5 tháng 3 năm 2024
Đơn vị bán: Công ty TNHH ABC
Mã số thuế: 0101234567
Người mua: Nguyễn Văn B
Thành tiền: 2.000.000
Thuế suất GTGT: 10%
Tiền thuế GTGT: 200.000
Tổng cộng tiền thanh toán: 2.200.000`

func TestExtractInvoice(t *testing.T) {
	doc, warning := ExtractInvoice(sampleInvoice)

	assert.Empty(t, warning)
	assert.Equal(t, Invoice, doc.Type)
	assert.Equal(t, "05/03/2024", doc.Date)
	assert.Equal(t, "0000123", doc.InvoiceNumber)
	assert.Equal(t, "1C24TAA", doc.InvoiceSymbol)
	assert.Equal(t, "Công ty TNHH ABC", doc.Seller)
	assert.Equal(t, "Nguyễn Văn B", doc.Buyer)
	assertAmount(t, 2000000, doc.PreTaxAmount)
	assertAmount(t, 200000, doc.TaxAmount)
	assertAmount(t, 2200000, doc.TotalAmount)
	assert.Equal(t, sampleInvoice, doc.RawText)
	assert.Empty(t, doc.Memo)
}

func TestExtractInvoice_TotalOnlyFallback(t *testing.T) {
	doc, warning := ExtractInvoice("Tổng cộng 1.080.000")

	assert.Empty(t, warning)
	assertAmount(t, 1080000, doc.TotalAmount)
	assertAmount(t, 1000000, doc.PreTaxAmount)
	assertAmount(t, 80000, doc.TaxAmount)
}

func TestExtractInvoice_Amounts(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		opts   []Option
		total  int64
		preTax int64
		tax    int64
	}{
		{
			name:   "no total line uses the largest amount",
			text:   "Hàng hóa A 500.000\nHàng hóa B 1.500.000",
			total:  1500000,
			preTax: 1388889,
			tax:    111111,
		},
		{
			name:   "later total line overwrites earlier one",
			text:   "Cộng tiền hàng: 2.000.000\nTổng cộng tiền thanh toán: 2.160.000",
			total:  2160000,
			preTax: 2000000,
			tax:    160000,
		},
		{
			name:   "tax rate line is not a tax amount",
			text:   "Thuế suất: 10.000\nTổng cộng: 1.080.000",
			total:  1080000,
			preTax: 1000000,
			tax:    80000,
		},
		{
			name:   "total keyword wins over tax keyword on the same line",
			text:   "Tổng cộng tiền thanh toán (đã gồm thuế): 3.240.000",
			total:  3240000,
			preTax: 3000000,
			tax:    240000,
		},
		{
			name:   "configured tax rate",
			text:   "Tổng cộng: 1.100.000",
			opts:   []Option{WithTaxRate(decimal.RequireFromString("0.1"))},
			total:  1100000,
			preTax: 1000000,
			tax:    100000,
		},
		{
			name:   "invalid tax rate falls back to default",
			text:   "Tổng cộng: 1.080.000",
			opts:   []Option{WithTaxRate(decimal.NewFromInt(-1))},
			total:  1080000,
			preTax: 1000000,
			tax:    80000,
		},
		{
			name:   "derived tax is never negative",
			text:   "Thành tiền: 3.000.000\nTổng cộng: 2.000.000",
			total:  2000000,
			preTax: 3000000,
			tax:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := ExtractInvoice(tt.text, tt.opts...)
			assertAmount(t, tt.total, doc.TotalAmount, "total")
			assertAmount(t, tt.preTax, doc.PreTaxAmount, "pre-tax")
			assertAmount(t, tt.tax, doc.TaxAmount, "tax")
		})
	}
}

func TestExtractInvoice_Warnings(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		doc, warning := ExtractInvoice("  \n ")
		assert.Equal(t, WarningEmptyText, warning)
		assert.True(t, doc.TotalAmount.IsZero())
		assert.Empty(t, doc.Seller)
	})

	t.Run("text without digits", func(t *testing.T) {
		doc, warning := ExtractInvoice("Hóa đơn bán hàng\nNgười bán: Cửa hàng Minh Anh")
		assert.Equal(t, WarningNoDigits, warning)
		assert.Equal(t, "Cửa hàng Minh Anh", doc.Seller)
		assert.True(t, doc.TotalAmount.IsZero())
		assert.True(t, doc.PreTaxAmount.IsZero())
		assert.True(t, doc.TaxAmount.IsZero())
	})
}

func TestExtractInvoice_Parties(t *testing.T) {
	t.Run("value after the first colon", func(t *testing.T) {
		doc, _ := ExtractInvoice("Đơn vị bán: Công ty A: Chi nhánh Hà Nội\nKhách hàng: Bà Lan")
		assert.Equal(t, "Công ty A: Chi nhánh Hà Nội", doc.Seller)
		assert.Equal(t, "Bà Lan", doc.Buyer)
	})

	t.Run("label without colon is ignored", func(t *testing.T) {
		doc, _ := ExtractInvoice("Bên A Công ty X\nBên B: Công ty Y")
		assert.Empty(t, doc.Seller)
		assert.Equal(t, "Công ty Y", doc.Buyer)
	})

	t.Run("case insensitive and indented", func(t *testing.T) {
		doc, _ := ExtractInvoice("   NGƯỜI BÁN: Shop Online")
		assert.Equal(t, "Shop Online", doc.Seller)
	})

	t.Run("only the header is scanned", func(t *testing.T) {
		lines := make([]string, 0, 40)
		for i := 0; i < 36; i++ {
			lines = append(lines, "dòng")
		}
		lines = append(lines, "Người bán: Quá xa")
		doc, _ := ExtractInvoice(strings.Join(lines, "\n"))
		assert.Empty(t, doc.Seller)
	})
}

func TestExtractInvoice_Identifiers(t *testing.T) {
	tests := []struct {
		name, text, number, symbol, date string
	}{
		{"english labels", "Serial: AB/24E\nNo. 45678\nDate 01/02/2023", "0045678", "AB/24E", "01/02/2023"},
		{"long invoice number kept", "Số hóa đơn: 12345678", "12345678", "", ""},
		{"spelled date with slashes", "ngày 7 / 11 / 2023", "", "", "07/11/2023"},
		{"spelled date wins over bare date", "In lúc 30/12/2023\nNgày 02 tháng 01 năm 2024", "", "", "02/01/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := ExtractInvoice(tt.text)
			assert.Equal(t, tt.number, doc.InvoiceNumber)
			assert.Equal(t, tt.symbol, doc.InvoiceSymbol)
			assert.Equal(t, tt.date, doc.Date)
		})
	}
}

func TestExtractInvoice_GeneratedTotals(t *testing.T) {
	gen := money.NewTestDataGeneratorWithSeed(2024)

	for i := 0; i < 50; i++ {
		amount := gen.Amount(100_000, 500_000_000)
		text := strings.Join([]string{
			gen.NoiseLines(3),
			"Tổng cộng: " + gen.PrintedAmount(amount),
			gen.NoiseLines(2),
		}, "\n")

		doc, warning := ExtractInvoice(text)
		require.Empty(t, warning)
		assertAmount(t, amount.Amount(), doc.TotalAmount, "text %q", text)
		assert.True(t, doc.PreTaxAmount.Add(doc.TaxAmount).Equal(doc.TotalAmount), "text %q", text)
	}
}

func TestExtractInvoice_Idempotent(t *testing.T) {
	first, w1 := ExtractInvoice(sampleInvoice)
	second, w2 := ExtractInvoice(sampleInvoice)
	assert.Equal(t, first, second)
	assert.Equal(t, w1, w2)
}
