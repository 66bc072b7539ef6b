package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/docscan/pkg/money"
)

// headerLines bounds the seller/buyer scan to the invoice header.
const headerLines = 35

// invoiceNumberWidth is the zero-padded width of invoice numbers.
const invoiceNumberWidth = 7

var (
	invoiceNumberRe = regexp.MustCompile(`(?i)(?:Số hóa đơn|Số HĐ|Số|No)[:\s.]*([0-9]{1,8})\b`)
	invoiceSymbolRe = regexp.MustCompile(`(?i)(?:Ký hiệu|Mẫu số|Serial)[:\s.]*([A-Z0-9]{1,2}[A-Z0-9/-]{3,10})`)
	sellerLabelRe   = regexp.MustCompile(`(?i)^(?:Đơn vị bán|Người bán|Bên A|Nhà cung cấp)`)
	buyerLabelRe    = regexp.MustCompile(`(?i)^(?:Đơn vị mua|Người mua|Khách hàng|Bên B)`)
)

// ExtractInvoice extracts date, invoice number and symbol, counterparties and the
// pre-tax, tax and total amounts from invoice text. The returned warning is empty unless
// the text is empty or has no digits.
func ExtractInvoice(text string, opts ...Option) (ExtractedDocument, string) {
	o := buildOptions(opts)
	doc := newDocument(Invoice, text)

	warning := inspectText(text)
	if warning == WarningEmptyText {
		return doc, warning
	}

	normalized := normalize(text)
	lines := strings.Split(normalized, "\n")

	doc.Date = extractDate(normalized)
	if m := invoiceNumberRe.FindStringSubmatch(normalized); m != nil {
		doc.InvoiceNumber = padInvoiceNumber(m[1])
	}
	if m := invoiceSymbolRe.FindStringSubmatch(normalized); m != nil {
		doc.InvoiceSymbol = m[1]
	}

	doc.TotalAmount, doc.PreTaxAmount, doc.TaxAmount = settleInvoiceAmounts(scanInvoiceAmounts(lines), o.taxRate)

	doc.Seller, doc.Buyer = extractParties(lines)

	return doc, warning
}

func padInvoiceNumber(digits string) string {
	if len(digits) >= invoiceNumberWidth {
		return digits
	}
	return strings.Repeat("0", invoiceNumberWidth-len(digits)) + digits
}

type invoiceAmounts struct {
	total, preTax, tax float64
	// max over every token in the document, used when no total line was found
	all    float64
	hasAny bool
}

// scanInvoiceAmounts classifies every line carrying amounts by keyword family and keeps
// its largest token. Total beats pre-tax beats tax on the same line; later lines
// overwrite earlier ones. An unset amount is 0.
func scanInvoiceAmounts(lines []string) invoiceAmounts {
	var a invoiceAmounts
	for _, line := range lines {
		amounts := CandidatesFromLine(line)
		if len(amounts) == 0 {
			continue
		}
		val := largestCandidate(amounts).Value
		if !a.hasAny || val > a.all {
			a.all = val
			a.hasAny = true
		}

		lower := strings.ToLower(line)
		switch {
		case invoiceTotalSet.ContainsAny(lower):
			a.total = val
		case invoicePreTaxSet.ContainsAny(lower):
			a.preTax = val
		case strings.Contains(lower, "thuế") && !strings.Contains(lower, "suất"):
			a.tax = val
		}
	}
	return a
}

// settleInvoiceAmounts fills missing amounts: the total falls back to the largest amount
// seen, the pre-tax amount to total/(1+rate) rounded half to even, and the tax to the
// difference. The derived tax is never negative.
func settleInvoiceAmounts(a invoiceAmounts, rate decimal.Decimal) (total, preTax, tax decimal.Decimal) {
	totalVal := a.total
	if totalVal == 0 && a.hasAny {
		totalVal = a.all
	}
	total = decimal.NewFromFloat(totalVal)

	preTax = decimal.NewFromFloat(a.preTax)
	if a.preTax == 0 {
		base, err := money.BaseFromTaxInclusive(total, rate)
		if err != nil {
			base, _ = money.BaseFromTaxInclusive(total, DefaultTaxRate)
		}
		preTax = base
	}

	tax = decimal.NewFromFloat(a.tax)
	if a.tax == 0 {
		tax = total.Sub(preTax)
		if tax.IsNegative() {
			tax = decimal.Zero
		}
	}

	return total, preTax, tax
}

// extractParties reads seller and buyer from the header. The value is the text after
// the first ':' on a line starting with a label; later labels overwrite earlier ones.
func extractParties(lines []string) (seller, buyer string) {
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case sellerLabelRe.MatchString(trimmed):
			if v, ok := afterColon(trimmed); ok {
				seller = v
			}
		case buyerLabelRe.MatchString(trimmed):
			if v, ok := afterColon(trimmed); ok {
				buyer = v
			}
		}
	}
	return seller, buyer
}

func afterColon(s string) (string, bool) {
	_, rest, found := strings.Cut(s, ":")
	if !found {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
