package extraction

import "github.com/shopspring/decimal"

// Reconciliation compares an invoice total with the sum of its parts.
type Reconciliation struct {
	Difference decimal.Decimal `json:"difference"`
	Consistent bool            `json:"consistent"`
}

// Reconcile checks |total - (pre_tax + tax)| < tolerance.
func Reconcile(doc ExtractedDocument, tolerance decimal.Decimal) Reconciliation {
	diff := doc.TotalAmount.Sub(doc.PreTaxAmount.Add(doc.TaxAmount)).Abs()
	return Reconciliation{
		Difference: diff,
		Consistent: diff.LessThan(tolerance),
	}
}

// Result is the outcome of one dispatched extraction.
type Result struct {
	Document ExtractedDocument `json:"document"`
	Warning  string            `json:"warning,omitempty"`
	// Candidates lists the scored totals of a bank advice.
	Candidates []ScoredCandidate `json:"candidates,omitempty"`
	// Reconciliation is set for invoices only.
	Reconciliation *Reconciliation `json:"reconciliation,omitempty"`
}

// Extract routes text to the extractor for docType. The type is never inferred from the
// content. learned is only consulted for bank advices.
func Extract(docType DocumentType, text string, learned []string, opts ...Option) (Result, error) {
	switch docType {
	case Invoice:
		o := buildOptions(opts)
		doc, warning := ExtractInvoice(text, opts...)
		rec := Reconcile(doc, o.tolerance)
		return Result{Document: doc, Warning: warning, Reconciliation: &rec}, nil
	case BankAdvice:
		doc, candidates, warning := extractBankAdvice(text, learned)
		return Result{Document: doc, Warning: warning, Candidates: candidates}, nil
	default:
		return Result{}, ErrUnknownDocumentType
	}
}
