package extractor

import (
	"github.com/shopspring/decimal"

	"github.com/khuswant18/paddle-ocr/dto"
)

// reconcileTotals cross-checks the totals block against the parsed items.
// Computation only ever fills gaps: an extracted value, however
// inconsistent it looks, is never overwritten. Line amounts are likewise
// never recomputed from quantity and unit price, because OCR noise makes
// qty*price an unreliable witness against the printed amount.
func reconcileTotals(rec *dto.InvoiceRecord) {
	itemSum := decimal.Zero
	haveSum := false
	for _, item := range rec.Items {
		if item.Amount != nil {
			itemSum = itemSum.Add(*item.Amount)
			haveSum = true
		}
	}

	if rec.Subtotal == nil && haveSum {
		sum := itemSum
		rec.Subtotal = &sum
	}

	if rec.GrandTotal == nil && rec.Subtotal != nil && rec.Tax != nil && rec.Discount != nil {
		total := rec.Subtotal.Add(*rec.Tax).Sub(*rec.Discount)
		rec.GrandTotal = &total
	}
}
