package extractor

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khuswant18/paddle-ocr/dto"
)

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestReconcileFillsSubtotalFromItems(t *testing.T) {
	rec := dto.InvoiceRecord{
		Items: []dto.LineItem{
			{Description: "Widget A", Amount: dec(t, "19.99")},
			{Description: "Widget B", Amount: dec(t, "0.01")},
		},
	}

	reconcileTotals(&rec)

	require.NotNil(t, rec.Subtotal)
	assert.True(t, rec.Subtotal.Equal(decimal.RequireFromString("20.00")))
}

func TestReconcileDerivesGrandTotalExactly(t *testing.T) {
	rec := dto.InvoiceRecord{
		Subtotal: dec(t, "100.10"),
		Tax:      dec(t, "18.02"),
		Discount: dec(t, "5.00"),
	}

	reconcileTotals(&rec)

	require.NotNil(t, rec.GrandTotal)
	assert.True(t, rec.GrandTotal.Equal(decimal.RequireFromString("113.12")))
}

func TestReconcileNeedsAllThreeForGrandTotal(t *testing.T) {
	rec := dto.InvoiceRecord{
		Subtotal: dec(t, "100.00"),
		Tax:      dec(t, "18.00"),
	}

	reconcileTotals(&rec)

	assert.Nil(t, rec.GrandTotal)
}

func TestReconcileNeverOverwrites(t *testing.T) {
	// Extracted values stand even when they disagree with the item sum.
	rec := dto.InvoiceRecord{
		Items: []dto.LineItem{
			{Description: "Widget A", Amount: dec(t, "20.00")},
		},
		Subtotal:   dec(t, "999.00"),
		Tax:        dec(t, "1.00"),
		Discount:   dec(t, "0.00"),
		GrandTotal: dec(t, "50.00"),
	}

	reconcileTotals(&rec)

	assert.True(t, rec.Subtotal.Equal(decimal.RequireFromString("999.00")))
	assert.True(t, rec.GrandTotal.Equal(decimal.RequireFromString("50.00")))
}

func TestReconcileEmptyRecord(t *testing.T) {
	rec := dto.InvoiceRecord{Items: []dto.LineItem{}}

	reconcileTotals(&rec)

	assert.Nil(t, rec.Subtotal)
	assert.Nil(t, rec.GrandTotal)
}
