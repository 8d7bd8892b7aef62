package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestParseRowThreeNumericColumns(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize("Widget A 2 10.00 20.00")

	item, ok := e.parseRow(lines[0])

	require.True(t, ok)
	assert.Equal(t, "Widget A", item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2.0, *item.Quantity)
	require.NotNil(t, item.UnitPrice)
	assert.Equal(t, "10.00", item.UnitPrice.StringFixed(2))
	require.NotNil(t, item.Amount)
	assert.Equal(t, "20.00", item.Amount.StringFixed(2))
}

func TestParseRowQuantityAndAmountOnly(t *testing.T) {
	// A bare integer next to a single amount is a quantity, not a unit
	// price.
	e := newTestEngine(t, Config{})
	lines := Normalize("Consulting services 3 450.00")

	item, ok := e.parseRow(lines[0])

	require.True(t, ok)
	assert.Equal(t, "Consulting services", item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 3.0, *item.Quantity)
	assert.Nil(t, item.UnitPrice)
	require.NotNil(t, item.Amount)
	assert.Equal(t, "450.00", item.Amount.StringFixed(2))
}

func TestParseRowRejectsTextOnly(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize("shipping and handling notes")

	_, ok := e.parseRow(lines[0])

	assert.False(t, ok)
}

func TestParseRowRejectsNumbersOnly(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize("2 10.00 20.00")

	_, ok := e.parseRow(lines[0])

	assert.False(t, ok)
}

func TestReconstructTable(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize(strings.Join([]string{
		"ACME Supplies Ltd",
		"Description Qty Unit Price Amount",
		"Widget A 2 10.00 20.00",
		"Widget B 1 15.50 15.50",
		"Subtotal: 35.50",
	}, "\n"))

	region := e.reconstructTable(lines)

	assert.Equal(t, 1, region.HeaderIndex)
	assert.Equal(t, 4, region.TotalsIndex)
	require.Len(t, region.Items, 2)
	assert.Equal(t, "Widget A", region.Items[0].Description)
	assert.Equal(t, "Widget B", region.Items[1].Description)
}

func TestReconstructTableContinuationRow(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize(strings.Join([]string{
		"Description Qty Rate Amount",
		"Annual maintenance 1 500.00 500.00",
		"for warehouse equipment",
		"Total: 500.00",
	}, "\n"))

	region := e.reconstructTable(lines)

	require.Len(t, region.Items, 1)
	assert.Equal(t, "Annual maintenance for warehouse equipment", region.Items[0].Description)
}

func TestReconstructTableNoHeader(t *testing.T) {
	e := newTestEngine(t, Config{})
	lines := Normalize("just a letter\nwith some words\nnothing else")

	region := e.reconstructTable(lines)

	assert.NotNil(t, region.Items)
	assert.Empty(t, region.Items)
	assert.Equal(t, -1, region.HeaderIndex)
	assert.Equal(t, -1, region.TotalsIndex)
}

func TestReconstructTableRowCap(t *testing.T) {
	e := newTestEngine(t, Config{MaxTableRows: 2})
	lines := Normalize(strings.Join([]string{
		"Description Qty Amount",
		"Item one 1 10.00",
		"Item two 2 20.00",
		"Item three 3 30.00",
		"Item four 4 40.00",
	}, "\n"))

	region := e.reconstructTable(lines)

	assert.Len(t, region.Items, 2)
}

func TestIsHeaderRowNeedsTwoColumns(t *testing.T) {
	e := newTestEngine(t, Config{})

	assert.True(t, e.isHeaderRow(Normalize("Description Qty Amount")[0]))
	assert.True(t, e.isHeaderRow(Normalize("Item Rate")[0]))
	assert.False(t, e.isHeaderRow(Normalize("Amount payable on receipt")[0]))
}
