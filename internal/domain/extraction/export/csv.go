// Package export writes extraction results in tabular form.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/docscan/internal/domain/extraction/service"
	"github.com/FACorreiaa/docscan/pkg/money"
)

// Row is one extracted document as written to CSV. Amounts use the dot-grouped print
// format and keep cents only when the amount has them.
type Row struct {
	ID            string `csv:"id"`
	Source        string `csv:"source"`
	Type          string `csv:"type"`
	Date          string `csv:"date"`
	Seller        string `csv:"seller"`
	Buyer         string `csv:"buyer"`
	InvoiceNumber string `csv:"invoice_number"`
	InvoiceSymbol string `csv:"invoice_symbol"`
	PreTaxAmount  string `csv:"pre_tax_amount"`
	TaxAmount     string `csv:"tax_amount"`
	TotalAmount   string `csv:"total_amount"`
	Memo          string `csv:"memo"`
	Reconciled    string `csv:"reconciled"`
	Warning       string `csv:"warning"`
}

// Sourced pairs an extraction with the file or request it came from.
type Sourced struct {
	Source     string
	Extraction *service.Extraction
}

// NewRow flattens an extraction. Reconciled is empty for bank advices.
func NewRow(source string, e *service.Extraction) Row {
	doc := e.Document
	row := Row{
		ID:            e.ID.String(),
		Source:        source,
		Type:          doc.Type.String(),
		Date:          doc.Date,
		Seller:        doc.Seller,
		Buyer:         doc.Buyer,
		InvoiceNumber: doc.InvoiceNumber,
		InvoiceSymbol: doc.InvoiceSymbol,
		PreTaxAmount:  money.FormatAmount(doc.PreTaxAmount),
		TaxAmount:     money.FormatAmount(doc.TaxAmount),
		TotalAmount:   money.FormatAmount(doc.TotalAmount),
		Memo:          doc.Memo,
		Warning:       e.Warning,
	}
	if e.Reconciliation != nil {
		row.Reconciled = strconv.FormatBool(e.Reconciliation.Consistent)
	}
	return row
}

// WriteCSV writes a header and one row per extraction.
func WriteCSV(w io.Writer, results []Sourced) error {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, NewRow(r.Source, r.Extraction))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
