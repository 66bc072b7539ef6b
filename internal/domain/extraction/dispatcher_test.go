package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{"Invoice", Invoice, false},
		{"invoice", Invoice, false},
		{"Hóa đơn", Invoice, false},
		{"BankAdvice", BankAdvice, false},
		{" bank_advice ", BankAdvice, false},
		{"UNC", BankAdvice, false},
		{"receipt", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDocumentType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDocumentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_RoutesByType(t *testing.T) {
	t.Run("invoice", func(t *testing.T) {
		res, err := Extract(Invoice, sampleInvoice, []string{"ignored"})
		require.NoError(t, err)

		assert.Equal(t, Invoice, res.Document.Type)
		assert.Empty(t, res.Candidates)
		require.NotNil(t, res.Reconciliation)
		assert.True(t, res.Reconciliation.Consistent)
		assert.True(t, res.Reconciliation.Difference.IsZero())
	})

	t.Run("bank advice", func(t *testing.T) {
		res, err := Extract(BankAdvice, sampleAdvice, nil)
		require.NoError(t, err)

		assert.Equal(t, BankAdvice, res.Document.Type)
		assert.Nil(t, res.Reconciliation)
		assert.Len(t, res.Candidates, 4)
		assertAmount(t, 25000000, res.Document.TotalAmount)
	})

	t.Run("same text, different extractor", func(t *testing.T) {
		text := "Tổng cộng 1.080.000"
		inv, err := Extract(Invoice, text, nil)
		require.NoError(t, err)
		adv, err := Extract(BankAdvice, text, nil)
		require.NoError(t, err)

		assertAmount(t, 1000000, inv.Document.PreTaxAmount)
		assertAmount(t, 1080000, adv.Document.PreTaxAmount)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Extract(DocumentType("Receipt"), sampleInvoice, nil)
		assert.ErrorIs(t, err, ErrUnknownDocumentType)
	})

	t.Run("warning is passed through", func(t *testing.T) {
		res, err := Extract(BankAdvice, "", nil)
		require.NoError(t, err)
		assert.Equal(t, WarningEmptyText, res.Warning)
	})
}

func TestReconcile(t *testing.T) {
	doc := ExtractedDocument{
		PreTaxAmount: decimal.NewFromInt(2000000),
		TaxAmount:    decimal.NewFromInt(160000),
		TotalAmount:  decimal.NewFromInt(2160009),
	}

	rec := Reconcile(doc, DefaultTolerance)
	assert.True(t, rec.Consistent)
	assert.True(t, decimal.NewFromInt(9).Equal(rec.Difference))

	doc.TotalAmount = decimal.NewFromInt(2159990)
	rec = Reconcile(doc, DefaultTolerance)
	assert.False(t, rec.Consistent)
	assert.True(t, decimal.NewFromInt(10).Equal(rec.Difference))
}

func TestExtract_ToleranceOption(t *testing.T) {
	text := "Thành tiền: 2.000.000\nTiền thuế: 200.000\nTổng cộng: 2.200.005"

	res, err := Extract(Invoice, text, nil)
	require.NoError(t, err)
	assert.True(t, res.Reconciliation.Consistent)

	res, err = Extract(Invoice, text, nil, WithTolerance(decimal.NewFromInt(1)))
	require.NoError(t, err)
	assert.False(t, res.Reconciliation.Consistent)
}
