package extractor

import (
	"strconv"
	"strings"

	"github.com/khuswant18/paddle-ocr/dto"
)

// tableState drives the item-table scan. The policy for each state is
// deliberately explicit so every transition can be tested on its own.
type tableState int

const (
	seekingHeader tableState = iota
	inTable
	tableDone
)

// tableRegion is the outcome of one table scan over the document.
// HeaderIndex and TotalsIndex are -1 when the respective boundary was
// never seen; an empty Items slice is a valid result, not an error.
type tableRegion struct {
	Items       []dto.LineItem
	HeaderIndex int
	TotalsIndex int
}

// reconstructTable walks the normalized lines once, looking first for a
// header row (two or more column labels on one line), then accepting row
// candidates until a totals label or the row cap ends the table.
func (e *Engine) reconstructTable(lines []Line) tableRegion {
	region := tableRegion{Items: []dto.LineItem{}, HeaderIndex: -1, TotalsIndex: -1}
	state := seekingHeader
	rows := 0

	for i, line := range lines {
		switch state {
		case seekingHeader:
			if e.isHeaderRow(line) {
				region.HeaderIndex = i
				state = inTable
			}
		case inTable:
			if lineMatchesAny(line, e.vocab.totalsTerms(), e.cfg.MinLabelConfidence) {
				region.TotalsIndex = i
				state = tableDone
				break
			}
			rows++
			if rows > e.cfg.MaxTableRows {
				state = tableDone
				break
			}
			if item, ok := e.parseRow(line); ok {
				region.Items = append(region.Items, item)
			} else if n := len(region.Items); n > 0 && isContinuation(line) {
				region.Items[n-1].Description += " " + line.Text
			}
		}
		if state == tableDone {
			break
		}
	}
	return region
}

// isHeaderRow requires at least two distinct column vocabularies to match
// on the same line, so a stray "Amount" in an address block does not open
// a table.
func (e *Engine) isHeaderRow(line Line) bool {
	matched := 0
	for _, field := range e.vocab.tableHeaderFields() {
		if lineMatchesAny(line, e.vocab.terms(field), e.cfg.MinLabelConfidence) {
			matched++
		}
		if matched == 2 {
			return true
		}
	}
	return false
}

// parseRow accepts a line as an item row when it carries at least one
// numeric token alongside descriptive text. Numeric tokens are assigned to
// columns right to left: the rightmost is always the amount, then unit
// price, then quantity; whatever is left over is the description.
func (e *Engine) parseRow(line Line) (dto.LineItem, bool) {
	var item dto.LineItem

	var nums []int
	for pos, tok := range line.Tokens {
		if isNumericToken(tok) {
			nums = append(nums, pos)
		}
	}
	if len(nums) == 0 {
		return item, false
	}

	consumed := map[int]bool{}
	assign := len(nums)
	if assign > 3 {
		assign = 3
	}
	for k := 0; k < assign; k++ {
		pos := nums[len(nums)-1-k]
		tok := line.Tokens[pos]
		switch k {
		case 0:
			item.Amount = parseAmount(tok)
		case 1:
			item.UnitPrice = parseAmount(tok)
		case 2:
			if q, err := strconv.ParseFloat(cleanNumeric(tok), 64); err == nil {
				item.Quantity = &q
			}
		}
		consumed[pos] = true
	}
	// Two numeric columns and the left one is a bare integer: that is a
	// quantity next to an amount, not a unit price.
	if len(nums) == 2 && item.UnitPrice != nil && isBareInt(line.Tokens[nums[0]]) {
		q, _ := strconv.ParseFloat(cleanNumeric(line.Tokens[nums[0]]), 64)
		item.Quantity = &q
		item.UnitPrice = nil
	}

	var desc []string
	for pos, tok := range line.Tokens {
		if !consumed[pos] {
			desc = append(desc, tok)
		}
	}
	item.Description = strings.Join(desc, " ")
	if strings.TrimSpace(item.Description) == "" {
		return dto.LineItem{}, false
	}
	return item, true
}

// isContinuation reports whether a rejected row candidate is wrapped
// description text belonging to the previous row.
func isContinuation(line Line) bool {
	for _, tok := range line.Tokens {
		if isNumericToken(tok) {
			return false
		}
	}
	return letterRunRe.MatchString(line.Text)
}

func isNumericToken(tok string) bool {
	return parseAmount(tok) != nil
}

func cleanNumeric(tok string) string {
	return strings.NewReplacer("$", "", "₹", "", "€", "", "£", "", ",", "").Replace(tok)
}

func isBareInt(tok string) bool {
	n, err := strconv.Atoi(cleanNumeric(tok))
	return err == nil && n >= 0
}
