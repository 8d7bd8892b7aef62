// Package extractor recovers a structured invoice record from noisy OCR
// text. It is pure computation: no I/O, no logging, no shared state, so
// independent extractions can run concurrently without coordination.
package extractor

import (
	"fmt"

	"github.com/khuswant18/paddle-ocr/dto"
)

// DateLocale disambiguates numeric dates like 03/04/2025.
type DateLocale string

const (
	DateLocaleDMY DateLocale = "dmy"
	DateLocaleMDY DateLocale = "mdy"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultMinLabelConfidence = 0.75
	DefaultMaxTableRows       = 100
)

// Config is the extraction policy. The zero value is usable: New fills in
// the defaults. Invalid values are the only fatal condition in this
// package; extraction itself never fails.
type Config struct {
	// MinLabelConfidence is the similarity a fuzzy label match must reach
	// to be accepted, in (0,1].
	MinLabelConfidence float64
	// DateLocale decides whether ambiguous numeric dates read day-first
	// or month-first.
	DateLocale DateLocale
	// MaxTableRows caps how many candidate rows the table scan consumes
	// before giving up, guarding against runaway parsing.
	MaxTableRows int
	// LabelSynonyms extends the built-in vocabulary, keyed by the Field*
	// constants.
	LabelSynonyms map[string][]string
}

// Engine runs extractions under one fixed policy. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	cfg   Config
	vocab Vocabulary
}

// New validates the configuration and builds an Engine. This is the only
// place extraction can fail; a constructed Engine always returns a record.
func New(cfg Config) (*Engine, error) {
	if cfg.MinLabelConfidence == 0 {
		cfg.MinLabelConfidence = DefaultMinLabelConfidence
	}
	if cfg.MinLabelConfidence < 0 || cfg.MinLabelConfidence > 1 {
		return nil, fmt.Errorf("min label confidence %v out of range (0,1]", cfg.MinLabelConfidence)
	}
	if cfg.MaxTableRows < 0 {
		return nil, fmt.Errorf("max table rows must not be negative, got %d", cfg.MaxTableRows)
	}
	if cfg.MaxTableRows == 0 {
		cfg.MaxTableRows = DefaultMaxTableRows
	}
	switch cfg.DateLocale {
	case "":
		cfg.DateLocale = DateLocaleDMY
	case DateLocaleDMY, DateLocaleMDY:
	default:
		return nil, fmt.Errorf("unknown date locale %q", cfg.DateLocale)
	}
	return &Engine{cfg: cfg, vocab: buildVocabulary(cfg.LabelSynonyms)}, nil
}

// Extract maps one document's OCR output to a structured invoice record.
// Positional tokens, when present, rebuild the line order before
// normalization; otherwise the raw text is split as-is. Every field of the
// result is optional — unparseable or empty input yields an empty record,
// never an error.
func (e *Engine) Extract(rawText string, boxes []dto.TextBox) dto.InvoiceRecord {
	rec := dto.InvoiceRecord{Items: []dto.LineItem{}}

	lines := LinesFromBoxes(boxes)
	if len(lines) == 0 {
		lines = Normalize(rawText)
	}
	if len(lines) == 0 {
		return rec
	}

	region := e.reconstructTable(lines)
	rec.Items = region.Items

	e.extractHeader(lines, &rec)

	partyRegion := lines
	if region.HeaderIndex >= 0 {
		partyRegion = lines[:region.HeaderIndex]
	}
	e.extractParties(partyRegion, &rec)
	e.extractContacts(lines, &rec)
	e.extractTaxIDs(lines, &rec)
	e.extractBankDetails(lines, &rec)

	totalsRegion := lines
	if region.TotalsIndex >= 0 {
		totalsRegion = lines[region.TotalsIndex:]
	}
	e.extractTotals(totalsRegion, &rec)

	reconcileTotals(&rec)
	return rec
}
