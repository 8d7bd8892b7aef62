package extractor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khuswant18/paddle-ocr/dto"
)

const summaryWidth = 60

// RenderSummary formats an invoice record as a fixed-layout text block.
// It is a pure function of the record: absent fields are simply omitted,
// and the same record always renders the same text.
func RenderSummary(rec dto.InvoiceRecord) string {
	rule := strings.Repeat("=", summaryWidth)
	thin := strings.Repeat("-", summaryWidth)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(centerText("INVOICE SUMMARY", summaryWidth) + "\n")
	b.WriteString(rule + "\n")

	writeField(&b, "Invoice No", rec.InvoiceNumber)
	writeField(&b, "Date", formatDate(rec.InvoiceDate))
	writeField(&b, "Due Date", formatDate(rec.DueDate))
	writeField(&b, "PO Number", rec.PONumber)

	writeParty(&b, "SELLER", rec.Seller)
	writeParty(&b, "BUYER", rec.Buyer)

	if len(rec.Items) > 0 {
		fmt.Fprintf(&b, "\nITEMS (%d)\n%s\n", len(rec.Items), thin)
		for i, item := range rec.Items {
			fmt.Fprintf(&b, "%3d. %s\n", i+1, item.Description)
			switch {
			case item.Quantity != nil && item.UnitPrice != nil && item.Amount != nil:
				fmt.Fprintf(&b, "     %g x %s = %s\n", *item.Quantity, item.UnitPrice.StringFixed(2), item.Amount.StringFixed(2))
			case item.Amount != nil:
				fmt.Fprintf(&b, "     Amount: %s\n", item.Amount.StringFixed(2))
			}
		}
	}

	if rec.Subtotal != nil || rec.Tax != nil || rec.Discount != nil || rec.GrandTotal != nil {
		b.WriteString("\nTOTALS\n")
		writeAmount(&b, "Subtotal", rec.Subtotal, false)
		writeAmount(&b, "Tax", rec.Tax, false)
		writeAmount(&b, "Discount", rec.Discount, true)
		writeAmount(&b, "Grand Total", rec.GrandTotal, false)
	}

	if rec.Bank.BankName != "" || rec.Bank.AccountNumber != "" || rec.Bank.IFSC != "" {
		b.WriteString("\nBANK DETAILS\n")
		writeField(&b, "  Bank", rec.Bank.BankName)
		writeField(&b, "  A/C No", rec.Bank.AccountNumber)
		writeField(&b, "  IFSC", rec.Bank.IFSC)
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%-11s: %s\n", label, value)
	}
}

func writeParty(b *strings.Builder, heading string, p dto.PartyInfo) {
	if p.Name == "" && p.Address == "" && p.Phone == "" && p.Email == "" && p.TaxID == "" {
		return
	}
	fmt.Fprintf(b, "\n%s\n", heading)
	if p.Name != "" {
		fmt.Fprintf(b, "  %s\n", p.Name)
	}
	if p.Address != "" {
		fmt.Fprintf(b, "  %s\n", p.Address)
	}
	if p.Phone != "" {
		fmt.Fprintf(b, "  Phone: %s\n", p.Phone)
	}
	if p.Email != "" {
		fmt.Fprintf(b, "  Email: %s\n", p.Email)
	}
	if p.TaxID != "" {
		fmt.Fprintf(b, "  Tax ID: %s\n", p.TaxID)
	}
}

func writeAmount(b *strings.Builder, label string, d *decimal.Decimal, negative bool) {
	if d == nil {
		return
	}
	val := d.StringFixed(2)
	if negative {
		val = "-" + val
	}
	fmt.Fprintf(b, "  %-12s: %12s\n", label, val)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func centerText(s string, width int) string {
	if pad := (width - len(s)) / 2; pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
