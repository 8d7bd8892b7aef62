package extractor

import (
	"sort"
	"strings"
	"unicode"

	"github.com/khuswant18/paddle-ocr/dto"
)

// Line is one normalized line of OCR text. Tokens are the
// whitespace-separated pieces of Text; joining them with a single space
// reproduces Text exactly, so substring search over Text and token-window
// search stay in sync.
type Line struct {
	Index  int
	Text   string
	Tokens []string
}

// Normalize turns raw OCR output into an ordered sequence of clean lines.
// It collapses repeated whitespace, strips zero-width and control
// characters, unifies dash variants and drops empty lines. It carries no
// field semantics and is idempotent: normalizing already-normalized text
// yields the same lines.
func Normalize(raw string) []Line {
	raw = strings.ReplaceAll(raw, "\f", "\n")
	var lines []Line
	for _, rawLine := range strings.Split(raw, "\n") {
		text := cleanLineText(rawLine)
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Index:  len(lines),
			Text:   text,
			Tokens: strings.Fields(text),
		})
	}
	return lines
}

func cleanLineText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff':
			// zero-width characters OCR engines leak into output
		case r == '—' || r == '–':
			b.WriteRune('-')
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// LinesFromBoxes rebuilds the line sequence from positioned OCR tokens.
// Boxes carrying a line index from the backend are grouped by it; word-level
// boxes (LineIndex < 0) are grouped into rows by vertical overlap and
// ordered left to right, which recovers reading order when the backend
// reports columns separately.
func LinesFromBoxes(boxes []dto.TextBox) []Line {
	if len(boxes) == 0 {
		return nil
	}

	indexed := true
	for _, b := range boxes {
		if b.LineIndex < 0 {
			indexed = false
			break
		}
	}

	var rows [][]dto.TextBox
	if indexed {
		byIndex := make(map[int][]dto.TextBox)
		var order []int
		for _, b := range boxes {
			if _, ok := byIndex[b.LineIndex]; !ok {
				order = append(order, b.LineIndex)
			}
			byIndex[b.LineIndex] = append(byIndex[b.LineIndex], b)
		}
		sort.Ints(order)
		for _, idx := range order {
			rows = append(rows, byIndex[idx])
		}
	} else {
		sorted := make([]dto.TextBox, len(boxes))
		copy(sorted, boxes)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Y != sorted[j].Y {
				return sorted[i].Y < sorted[j].Y
			}
			return sorted[i].X < sorted[j].X
		})
		for _, b := range sorted {
			if n := len(rows); n > 0 && overlapsRow(rows[n-1], b) {
				rows[n-1] = append(rows[n-1], b)
				continue
			}
			rows = append(rows, []dto.TextBox{b})
		}
	}

	var lines []Line
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		parts := make([]string, 0, len(row))
		for _, b := range row {
			parts = append(parts, b.Text)
		}
		text := cleanLineText(strings.Join(parts, " "))
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Index:  len(lines),
			Text:   text,
			Tokens: strings.Fields(text),
		})
	}
	return lines
}

// overlapsRow reports whether a box sits on the same visual row as the
// boxes collected so far, using the row's first box as the anchor.
func overlapsRow(row []dto.TextBox, b dto.TextBox) bool {
	anchor := row[0]
	anchorMid := anchor.Y + anchor.Height/2
	return b.Y <= anchorMid && anchorMid <= b.Y+maxInt(b.Height, 1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
