package extractor

// Field keys for the label vocabulary. Callers extend a field's synonym
// set through Config.LabelSynonyms using these keys.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldDueDate       = "due_date"
	FieldPONumber      = "po_number"
	FieldSellerName    = "seller_name"
	FieldBuyerName     = "buyer_name"
	FieldTaxID         = "tax_id"
	FieldBankName      = "bank_name"
	FieldAccountNumber = "account_number"
	FieldSubtotal      = "subtotal"
	FieldTax           = "tax"
	FieldDiscount      = "discount"
	FieldGrandTotal    = "grand_total"

	fieldColDescription = "col_description"
	fieldColQuantity    = "col_quantity"
	fieldColUnitPrice   = "col_unit_price"
	fieldColAmount      = "col_amount"
)

// Vocabulary maps a field key to the label spellings that announce it on
// an invoice. It is built once per Engine and never mutated afterwards,
// so concurrent extractions can share it freely.
type Vocabulary map[string][]string

func defaultVocabulary() Vocabulary {
	return Vocabulary{
		FieldInvoiceNumber: {"invoice no", "invoice number", "invoice#", "inv no", "inv#", "bill no", "bill number", "receipt no", "voucher no", "invoice"},
		FieldInvoiceDate:   {"invoice date", "inv date", "bill date", "dated", "issue date", "date"},
		FieldDueDate:       {"due date", "payment due", "due by", "pay by", "due on", "payable by"},
		FieldPONumber:      {"po number", "po no", "purchase order", "p.o. number", "p.o.", "order no", "order number"},
		FieldSellerName:    {"from", "seller", "vendor", "sold by", "supplier", "bill from", "shipper"},
		FieldBuyerName:     {"bill to", "billed to", "sold to", "ship to", "buyer", "customer", "consignee", "deliver to", "client"},
		FieldTaxID:         {"gstin", "gst no", "tax id", "tin", "vat no", "pan"},
		FieldBankName:      {"bank name", "bank", "banker", "bank details"},
		FieldAccountNumber: {"a/c no", "account no", "account number", "acct no", "a/c number"},
		FieldSubtotal:      {"subtotal", "sub total", "sub-total", "taxable value", "taxable amount", "net amount"},
		FieldTax:           {"tax", "tax amount", "total tax", "gst", "vat", "cgst", "sgst", "igst"},
		FieldDiscount:      {"discount", "disc", "less", "rebate", "deduction"},
		FieldGrandTotal:    {"grand total", "total amount", "amount due", "net payable", "invoice total", "balance due", "total due", "total"},

		fieldColDescription: {"description", "particulars", "item", "items", "product", "goods", "details"},
		fieldColQuantity:    {"qty", "quantity", "qnty", "nos", "pcs", "units"},
		fieldColUnitPrice:   {"unit price", "rate", "price", "unit rate", "mrp", "cost"},
		fieldColAmount:      {"amount", "amt", "value", "line total", "total"},
	}
}

// buildVocabulary merges caller-supplied synonyms into the default
// vocabulary without touching either source map.
func buildVocabulary(extra map[string][]string) Vocabulary {
	vocab := defaultVocabulary()
	for field, synonyms := range extra {
		merged := make([]string, 0, len(vocab[field])+len(synonyms))
		merged = append(merged, vocab[field]...)
		merged = append(merged, synonyms...)
		vocab[field] = merged
	}
	return vocab
}

func (v Vocabulary) terms(field string) []string {
	return v[field]
}

// tableHeaderTerms are the column labels whose co-occurrence on one line
// marks the start of the item table.
func (v Vocabulary) tableHeaderFields() []string {
	return []string{fieldColDescription, fieldColQuantity, fieldColUnitPrice, fieldColAmount}
}

// totalsTerms announce the totals region that ends the item table.
func (v Vocabulary) totalsTerms() []string {
	var terms []string
	terms = append(terms, v[FieldSubtotal]...)
	terms = append(terms, v[FieldTax]...)
	terms = append(terms, v[FieldGrandTotal]...)
	return terms
}
