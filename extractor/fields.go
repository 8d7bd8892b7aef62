package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khuswant18/paddle-ocr/dto"
)

// valueLookahead bounds how many lines below a matched label are searched
// for the field value before giving up.
const valueLookahead = 2

var (
	dateNumericRe = regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2}`)
	dateTextualRe = regexp.MustCompile(`(?i)\d{1,2}\s*(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s,]*\d{2,4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}[,\s]+\d{2,4}`)
	phoneRe       = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?(?:\(?\d{2,5}\)?[-.\s]?)?\d{3,5}[-.\s]?\d{4,5}`)
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	gstinRe       = regexp.MustCompile(`\d{2}[A-Z]{5}\d{4}[A-Z][A-Z\d]Z[A-Z\d]`)
	panRe         = regexp.MustCompile(`[A-Z]{5}\d{4}[A-Z]`)
	ifscRe        = regexp.MustCompile(`[A-Z]{4}0[A-Z0-9]{6}`)
	accountNumRe  = regexp.MustCompile(`\d{9,18}`)
	bankNameRe    = regexp.MustCompile(`[A-Za-z][A-Za-z&.\s]*`)
	digitRe       = regexp.MustCompile(`\d`)
	nonDigitRe    = regexp.MustCompile(`\D`)
	letterRunRe   = regexp.MustCompile(`[a-zA-Z]{2,}`)
	amountShapeRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Token shapes an invoice number must not take: dates, phone numbers and
// address-like fragments all sit near the labels we match on.
var invalidInvoiceNumberRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2}[-/.]\d{1,2}[-/.]\d{2,4}$`),
	regexp.MustCompile(`^\d{3}[-.]\d{3}[-.]\d{4}`),
	regexp.MustCompile(`(?i)^\d{4}[a-z]+$`),
}

var invoiceNumberStopWords = map[string]bool{
	"no": true, "number": true, "date": true, "to": true,
	"the": true, "from": true, "for": true,
}

// valueAfter returns the raw value text for a matched label: the remainder
// of the matched line after the label span when non-empty, otherwise the
// next non-empty line within the lookahead window.
func valueAfter(lines []Line, m *Match) string {
	line := lines[m.LineIndex]
	if m.TokenEnd < len(line.Tokens) {
		rest := strings.Join(line.Tokens[m.TokenEnd:], " ")
		if rest = strings.Trim(rest, " :.-="); rest != "" {
			return rest
		}
	}
	for i := m.LineIndex + 1; i <= m.LineIndex+valueLookahead && i < len(lines); i++ {
		if text := strings.Trim(lines[i].Text, " :.-="); text != "" {
			return text
		}
	}
	return ""
}

// parseDate tries the raw value against an ordered list of layouts. The
// locale decides whether an ambiguous numeric date reads day-first or
// month-first; the first layout that consumes the whole token cluster wins.
func parseDate(raw string, locale DateLocale) *time.Time {
	cluster := dateNumericRe.FindString(raw)
	if cluster == "" {
		cluster = dateTextualRe.FindString(raw)
	}
	if cluster == "" {
		return nil
	}
	// A date never carries more than 8 digits; longer runs are phone
	// numbers or account numbers sitting next to the label.
	if len(nonDigitRe.ReplaceAllString(cluster, "")) > 8 {
		return nil
	}
	cluster = strings.NewReplacer("-", "/", ".", "/").Replace(cluster)

	numeric := []string{"02/01/2006", "2/1/2006", "02/01/06", "2/1/06"}
	if locale == DateLocaleMDY {
		numeric = []string{"01/02/2006", "1/2/2006", "01/02/06", "1/2/06"}
	}
	layouts := append(numeric,
		"2006/01/02",
		"2 Jan 2006", "2 January 2006", "2 Jan 06",
		"Jan 2, 2006", "January 2, 2006", "Jan 2 2006",
	)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cluster); err == nil {
			return &t
		}
	}
	return nil
}

// parseAmount turns one OCR token cluster into an exact decimal amount.
// Currency symbols and thousands separators are stripped, common digit
// confusions repaired, and anything still implausible yields nil rather
// than a zero that could be mistaken for real data.
func parseAmount(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("$", "", "₹", "", "€", "", "£", "", ",", "", " ", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rs."), "Rs")
	if s == "" || !digitRe.MatchString(s) {
		return nil
	}
	s = repairDigits(s)

	// OCR of European layouts reads 1.940.00 for 1,940.00: when several
	// dots survive, the last two-digit group is the decimal part.
	if strings.Count(s, ".") > 1 {
		parts := strings.Split(s, ".")
		if len(parts[len(parts)-1]) == 2 {
			s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		} else {
			s = strings.Join(parts, "")
		}
	}
	if !amountShapeRe.MatchString(s) {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// repairDigits fixes letter-for-digit confusions, but only in tokens that
// are digits apart from the confused characters; alphanumeric IDs pass
// through untouched.
func repairDigits(s string) string {
	repaired := strings.NewReplacer("O", "0", "o", "0", "l", "1", "I", "1").Replace(s)
	if amountShapeRe.MatchString(repaired) {
		return repaired
	}
	return s
}

// extractHeader fills invoice number, dates and PO number.
func (e *Engine) extractHeader(lines []Line, rec *dto.InvoiceRecord) {
	if m := findLabel(lines, e.vocab.terms(FieldInvoiceNumber), e.cfg.MinLabelConfidence); m != nil {
		rec.InvoiceNumber = pickInvoiceNumber(valueAfter(lines, m))
	}
	if m := findLabel(lines, e.vocab.terms(FieldInvoiceDate), e.cfg.MinLabelConfidence); m != nil {
		rec.InvoiceDate = parseDate(valueAfter(lines, m), e.cfg.DateLocale)
	}
	if m := findLabel(lines, e.vocab.terms(FieldDueDate), e.cfg.MinLabelConfidence); m != nil {
		rec.DueDate = parseDate(valueAfter(lines, m), e.cfg.DateLocale)
	}
	if m := findLabel(lines, e.vocab.terms(FieldPONumber), e.cfg.MinLabelConfidence); m != nil {
		rec.PONumber = pickReference(valueAfter(lines, m))
	}
}

// pickInvoiceNumber selects the first plausible identifier token from the
// value text: 2-30 characters, at least one digit, not date- or
// phone-shaped, not a stray label word.
func pickInvoiceNumber(value string) string {
	for _, tok := range strings.Fields(value) {
		tok = strings.Trim(tok, ":#.,;")
		if len(tok) < 2 || len(tok) > 30 {
			continue
		}
		// Label residue survives OCR digit confusion too: "N0" is "No".
		lower := strings.ToLower(tok)
		if invoiceNumberStopWords[lower] ||
			invoiceNumberStopWords[strings.NewReplacer("0", "o", "1", "l").Replace(lower)] {
			continue
		}
		if !digitRe.MatchString(tok) {
			continue
		}
		invalid := false
		for _, re := range invalidInvoiceNumberRes {
			if re.MatchString(tok) {
				invalid = true
				break
			}
		}
		if !invalid {
			return tok
		}
	}
	return ""
}

// pickReference is the laxer variant for PO/order numbers.
func pickReference(value string) string {
	for _, tok := range strings.Fields(value) {
		tok = strings.Trim(tok, ":#.,;")
		if len(tok) >= 2 && len(tok) <= 30 && !invoiceNumberStopWords[strings.ToLower(tok)] {
			return tok
		}
	}
	return ""
}

// extractTotals fills the totals block by fuzzy label lookup over the
// totals region (everything from the detected totals boundary down, or the
// whole document when no table was found).
func (e *Engine) extractTotals(lines []Line, rec *dto.InvoiceRecord) {
	set := func(field string, dst **decimal.Decimal) {
		if *dst != nil {
			return
		}
		if m := findLabel(lines, e.vocab.terms(field), e.cfg.MinLabelConfidence); m != nil {
			*dst = firstAmount(valueAfter(lines, m))
		}
	}
	set(FieldSubtotal, &rec.Subtotal)
	set(FieldTax, &rec.Tax)
	set(FieldDiscount, &rec.Discount)
	set(FieldGrandTotal, &rec.GrandTotal)
}

// firstAmount returns the first token of the value text that parses as a
// plausible amount.
func firstAmount(value string) *decimal.Decimal {
	for _, tok := range strings.Fields(value) {
		if d := parseAmount(tok); d != nil {
			return d
		}
	}
	return nil
}

// Party-line shapes that are never a name or address.
var partySkipRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2,4}[-/]\d{1,2}[-/]\d{2,4}$`),
	regexp.MustCompile(`^\d{3}[-.\s]\d{3}[-.\s]\d{4}`),
	regexp.MustCompile(`(?i)^tel\.?\s*no`),
	regexp.MustCompile(`^[\d,.]+$`),
	regexp.MustCompile(`(?i)^(invoice|bill|receipt|date|po|order|gstin|pan|tin|vat)\b`),
}

func isPartyLine(text string) bool {
	if len(strings.TrimSpace(text)) < 3 || !letterRunRe.MatchString(text) {
		return false
	}
	for _, re := range partySkipRes {
		if re.MatchString(strings.TrimSpace(text)) {
			return false
		}
	}
	return true
}

// extractParties resolves seller and buyer blocks from the region above the
// item table. The buyer block hangs off a "Bill To"-style label; the seller
// block is an explicit "From"-style label or, failing that, the first party
// lines at the top of the document.
func (e *Engine) extractParties(lines []Line, rec *dto.InvoiceRecord) {
	buyerMatch := findLabel(lines, e.vocab.terms(FieldBuyerName), e.cfg.MinLabelConfidence)
	sellerMatch := findLabel(lines, e.vocab.terms(FieldSellerName), e.cfg.MinLabelConfidence)

	buyerStart := len(lines)
	if buyerMatch != nil {
		buyerStart = buyerMatch.LineIndex
		rec.Buyer = e.collectParty(lines, buyerMatch)
	}
	if sellerMatch != nil && (buyerMatch == nil || sellerMatch.LineIndex != buyerMatch.LineIndex) {
		rec.Seller = e.collectParty(lines, sellerMatch)
	} else {
		// No explicit seller marker: the letterhead block at the top of
		// the page is the seller.
		var block []string
		for _, line := range lines {
			if line.Index >= buyerStart || len(block) == 4 {
				break
			}
			if isPartyLine(line.Text) {
				block = append(block, line.Text)
			}
		}
		rec.Seller = partyFromBlock(block)
	}
}

// collectParty gathers the party block anchored at a matched label: inline
// remainder first, then following party lines, capped at four.
func (e *Engine) collectParty(lines []Line, m *Match) dto.PartyInfo {
	var block []string
	line := lines[m.LineIndex]
	if m.TokenEnd < len(line.Tokens) {
		rest := strings.Trim(strings.Join(line.Tokens[m.TokenEnd:], " "), " :.-")
		if len(rest) > 2 && isPartyLine(rest) {
			block = append(block, rest)
		}
	}
	for i := m.LineIndex + 1; i < len(lines) && len(block) < 4; i++ {
		text := lines[i].Text
		if lineMatchesAny(lines[i], e.vocab.totalsTerms(), e.cfg.MinLabelConfidence) {
			break
		}
		if !isPartyLine(text) {
			break
		}
		block = append(block, text)
	}
	return partyFromBlock(block)
}

func partyFromBlock(block []string) dto.PartyInfo {
	var p dto.PartyInfo
	if len(block) == 0 {
		return p
	}
	p.Name = block[0]
	if len(block) > 1 {
		var addr []string
		for _, l := range block[1:] {
			if !strings.EqualFold(l, p.Name) {
				addr = append(addr, l)
			}
		}
		p.Address = strings.Join(addr, ", ")
	}
	return p
}

// extractContacts assigns phone numbers and e-mail addresses in reading
// order: the first hit belongs to the seller, the second to the buyer.
func (e *Engine) extractContacts(lines []Line, rec *dto.InvoiceRecord) {
	text := joinLines(lines)

	var phones []string
	for _, p := range phoneRe.FindAllString(text, -1) {
		if len(nonDigitRe.ReplaceAllString(p, "")) >= 10 {
			phones = append(phones, strings.TrimSpace(p))
		}
	}
	if len(phones) > 0 {
		rec.Seller.Phone = phones[0]
	}
	if len(phones) > 1 {
		rec.Buyer.Phone = phones[1]
	}

	emails := emailRe.FindAllString(text, -1)
	if len(emails) > 0 {
		rec.Seller.Email = emails[0]
	}
	if len(emails) > 1 {
		rec.Buyer.Email = emails[1]
	}
}

// extractTaxIDs prefers format-validated IDs (GSTIN, then PAN) over
// label-proximity lookup.
func (e *Engine) extractTaxIDs(lines []Line, rec *dto.InvoiceRecord) {
	upper := strings.ToUpper(joinLines(lines))

	gstins := gstinRe.FindAllString(upper, -1)
	if len(gstins) > 0 {
		rec.Seller.TaxID = gstins[0]
	}
	if len(gstins) > 1 {
		rec.Buyer.TaxID = gstins[1]
	}
	if rec.Seller.TaxID != "" {
		return
	}
	if pan := panRe.FindString(upper); pan != "" {
		rec.Seller.TaxID = pan
		return
	}
	if m := findLabel(lines, e.vocab.terms(FieldTaxID), e.cfg.MinLabelConfidence); m != nil {
		rec.Seller.TaxID = pickReference(valueAfter(lines, m))
	}
}

// extractBankDetails recovers the remittance block: bank name from a
// label, account number as a 9-18 digit run after an account label,
// IFSC by its fixed format anywhere in the text.
func (e *Engine) extractBankDetails(lines []Line, rec *dto.InvoiceRecord) {
	if m := findLabel(lines, e.vocab.terms(FieldBankName), e.cfg.MinLabelConfidence); m != nil {
		if name := bankNameRe.FindString(valueAfter(lines, m)); name != "" {
			rec.Bank.BankName = strings.Trim(name, " .")
		}
	}
	if m := findLabel(lines, e.vocab.terms(FieldAccountNumber), e.cfg.MinLabelConfidence); m != nil {
		rec.Bank.AccountNumber = accountNumRe.FindString(valueAfter(lines, m))
	}
	rec.Bank.IFSC = ifscRe.FindString(strings.ToUpper(joinLines(lines)))
}

func joinLines(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Text)
	}
	return strings.Join(parts, "\n")
}
