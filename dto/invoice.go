package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyInfo holds the identifying details of one party on the invoice.
// Every field is independently optional; an empty string means the field
// could not be recovered from the document.
type PartyInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// LineItem is one row of the invoice's itemized charges table.
// Quantity, unit price and amount are pointers because OCR frequently
// loses one or more columns; nil means "not recovered", never zero.
type LineItem struct {
	Description string           `json:"description"`
	Quantity    *float64         `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// BankDetails is the remittance block many invoices print near the
// footer. Every field is independently optional.
type BankDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
}

// InvoiceRecord is the structured result of one extraction run.
// All fields are optional: a sparse record is a normal outcome, not an
// error. Nothing mutates the record once the extractor returns it.
type InvoiceRecord struct {
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PONumber      string     `json:"po_number,omitempty"`

	Seller PartyInfo   `json:"seller"`
	Buyer  PartyInfo   `json:"buyer"`
	Bank   BankDetails `json:"bank"`

	Items []LineItem `json:"items"`

	Subtotal   *decimal.Decimal `json:"subtotal,omitempty"`
	Tax        *decimal.Decimal `json:"tax,omitempty"`
	Discount   *decimal.Decimal `json:"discount,omitempty"`
	GrandTotal *decimal.Decimal `json:"grand_total,omitempty"`
}

// TextBox is one positioned text token as reported by an OCR backend.
// LineIndex is -1 when the backend only reports word-level boxes; the
// extractor then groups boxes into lines by their vertical position.
type TextBox struct {
	Text      string `json:"text"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	LineIndex int    `json:"line_index"`
}

// DocumentQuality summarizes how trustworthy the OCR pass was.
type DocumentQuality struct {
	OcrConfidence float64  `json:"ocr_confidence"`
	TextScore     float64  `json:"text_score"`
	FinalScore    float64  `json:"final_score"`
	Issues        []string `json:"issues,omitempty"`
}
