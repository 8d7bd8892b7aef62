package service

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khuswant18/paddle-ocr/dto"
	"github.com/khuswant18/paddle-ocr/extractor"
)

func TestTextQualityScore(t *testing.T) {
	invoiceText := "Invoice No: 445\nDate: 05/10/2024\nSubtotal: 35.50\nTax: 3.55\nTotal: 39.05"
	assert.Greater(t, textQualityScore(invoiceText), 0.3)

	prose := "the quick brown fox jumps over the lazy dog near the river"
	assert.Equal(t, 0.0, textQualityScore(prose))
}

func TestTextQualityScoreTinyInput(t *testing.T) {
	assert.Equal(t, 0.0, textQualityScore(""))
	assert.Equal(t, 0.0, textQualityScore("invoice"))
	assert.Equal(t, 0.0, textQualityScore("   \n  "))
}

func TestEnhanceForOCRKeepsDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))

	out := enhanceForOCR(src)

	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 30, out.Bounds().Dy())
}

func TestOffsetPageBoxesKeepsPageOrder(t *testing.T) {
	wordBox := func(text string, x, y int) dto.TextBox {
		return dto.TextBox{Text: text, X: x, Y: y, Width: 10 * len(text), Height: 12, LineIndex: -1}
	}
	page1 := []dto.TextBox{
		wordBox("Invoice", 0, 10),
		wordBox("No:", 80, 10),
		wordBox("445", 120, 10),
		wordBox("Widget", 0, 200),
	}
	// A second page restarts at the top of its own coordinate space.
	page2 := []dto.TextBox{
		wordBox("Subtotal", 0, 12),
		wordBox("35.50", 90, 12),
		wordBox("Total", 0, 210),
		wordBox("39.05", 60, 210),
	}

	var all []dto.TextBox
	lineOffset, yOffset := 0, 0
	var shifted []dto.TextBox
	shifted, lineOffset, yOffset = offsetPageBoxes(page1, lineOffset, yOffset)
	all = append(all, shifted...)
	shifted, _, _ = offsetPageBoxes(page2, lineOffset, yOffset)
	all = append(all, shifted...)

	lines := extractor.LinesFromBoxes(all)
	require.Len(t, lines, 4)
	assert.Equal(t, "Invoice No: 445", lines[0].Text)
	assert.Equal(t, "Widget", lines[1].Text)
	assert.Equal(t, "Subtotal 35.50", lines[2].Text)
	assert.Equal(t, "Total 39.05", lines[3].Text)
}

func TestOffsetPageBoxesIndexedLines(t *testing.T) {
	page1 := []dto.TextBox{
		{Text: "Invoice No: 445", Y: 10, Height: 12, LineIndex: 0},
		{Text: "Widget", Y: 30, Height: 12, LineIndex: 1},
	}
	page2 := []dto.TextBox{
		{Text: "Subtotal 35.50", Y: 10, Height: 12, LineIndex: 0},
	}

	shifted1, lineOffset, yOffset := offsetPageBoxes(page1, 0, 0)
	shifted2, _, _ := offsetPageBoxes(page2, lineOffset, yOffset)

	assert.Equal(t, 0, shifted1[0].LineIndex)
	assert.Equal(t, 1, shifted1[1].LineIndex)
	assert.Equal(t, 2, shifted2[0].LineIndex)
	assert.Greater(t, shifted2[0].Y, shifted1[1].Y+shifted1[1].Height)
}

func TestOCRPagesAveragesSuccessfulPagesOnly(t *testing.T) {
	svc := NewInvoiceService(nil, nil, nil, extractor.Config{}, zap.NewNop())
	blank := image.NewRGBA(image.Rect(0, 0, 1, 1))
	images := []image.Image{blank, blank, blank}

	page := 0
	stub := func(context.Context, image.Image) (string, []dto.TextBox, float64, string, []string, error) {
		page++
		switch page {
		case 1:
			return "Invoice No: 445", nil, 90, "", nil, nil
		case 2:
			return "", nil, 0, "", nil, errors.New("recognition crashed")
		default:
			return "Total: 39.05", nil, 70, "", nil, nil
		}
	}

	text, _, conf, _, _, err := svc.ocrPages(context.Background(), images, stub)

	require.NoError(t, err)
	assert.Equal(t, "Invoice No: 445\nTotal: 39.05\n", text)
	assert.InDelta(t, 80.0, conf, 0.001)
}

func TestOCRPagesAllPagesFail(t *testing.T) {
	svc := NewInvoiceService(nil, nil, nil, extractor.Config{}, zap.NewNop())
	blank := image.NewRGBA(image.Rect(0, 0, 1, 1))
	stub := func(context.Context, image.Image) (string, []dto.TextBox, float64, string, []string, error) {
		return "", nil, 0, "", nil, errors.New("recognition crashed")
	}

	_, _, _, _, _, err := svc.ocrPages(context.Background(), []image.Image{blank}, stub)

	assert.ErrorIs(t, err, dto.ErrNoTextExtracted)
}

func TestSupportedExtensions(t *testing.T) {
	assert.True(t, supportedExtensions[".pdf"])
	assert.True(t, supportedExtensions[".jpg"])
	assert.False(t, supportedExtensions[".txt"])
	assert.False(t, supportedExtensions[""])
}
