// Package extraction pulls structured fields out of OCR or text-layer output of
// Vietnamese invoices (Hóa đơn) and bank payment advices (UNC, Ủy nhiệm chi).
//
// Every extractor is a pure function of the text and, for bank advices, a snapshot of
// learned keywords. Extraction never fails on malformed input: missing fields stay empty
// and an optional warning explains why the record is likely incomplete.
package extraction

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentType selects which extractor runs. It is always supplied by the caller.
type DocumentType string

const (
	Invoice    DocumentType = "Invoice"
	BankAdvice DocumentType = "BankAdvice"
)

// ErrUnknownDocumentType is returned when a document type string cannot be resolved.
var ErrUnknownDocumentType = errors.New("unknown document type")

// Warnings surfaced alongside a best-effort record.
const (
	WarningEmptyText = "document text is empty"
	WarningNoDigits  = "no digits found in document text"
)

// ParseDocumentType resolves a caller supplied type name. Besides the canonical names it
// accepts the lower-case aliases used by the CLI and the HTTP API.
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToLower(strings.TrimSpace(normalize(s))) {
	case "invoice", "hóa đơn":
		return Invoice, nil
	case "bankadvice", "bank_advice", "unc":
		return BankAdvice, nil
	default:
		return "", ErrUnknownDocumentType
	}
}

func (t DocumentType) String() string {
	return string(t)
}

// ExtractedDocument is the structured record produced for one document.
// Empty strings and zero amounts mean the field was not found.
type ExtractedDocument struct {
	Type          DocumentType    `json:"type"`
	Date          string          `json:"date"` // DD/MM/YYYY
	Seller        string          `json:"seller"`
	Buyer         string          `json:"buyer"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceSymbol string          `json:"invoice_symbol"`
	PreTaxAmount  decimal.Decimal `json:"pre_tax_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Memo          string          `json:"memo"`
	RawText       string          `json:"raw_text"`
}

func newDocument(t DocumentType, text string) ExtractedDocument {
	return ExtractedDocument{
		Type:         t,
		RawText:      text,
		PreTaxAmount: decimal.Zero,
		TaxAmount:    decimal.Zero,
		TotalAmount:  decimal.Zero,
	}
}

// MoneyCandidate is one amount token found on a line.
type MoneyCandidate struct {
	Value float64
	Line  string
}

// ScoredCandidate is a bank-advice total candidate with its heuristic score. Keywords
// lists the confirm keywords, static or learned, found on the line.
type ScoredCandidate struct {
	Value    float64  `json:"value"`
	Score    int      `json:"score"`
	Line     string   `json:"line"`
	Keywords []string `json:"keywords,omitempty"`
}
