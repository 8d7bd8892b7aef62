package extractor

import "strings"

// scoreDelta is the band inside which two candidate scores count as a tie;
// ties go to the longer (more specific) label so that "Invoice Number"
// beats a partial hit on "Invoice".
const scoreDelta = 0.05

// Match is one accepted fuzzy label occurrence. LineIndex is the position
// within the searched line slice; TokenStart/TokenEnd bound the matched
// window inside that line's token slice. The field value, if inline,
// starts at TokenEnd.
type Match struct {
	Label      string
	Matched    string
	Confidence float64
	LineIndex  int
	TokenStart int
	TokenEnd   int
}

// Similarity returns a normalized Levenshtein similarity in [0,1] between
// two already-normalized strings. Identical strings score 1.0.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	dist := levenshteinDistance(a, b)
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// normalizeForMatch lowercases and strips everything but letters and
// digits, so "P.O. Number:" and "po number" compare equal.
func normalizeForMatch(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// findLabel scans all lines for the best fuzzy occurrence of any of the
// given label terms. It slides token windows over each line, compares the
// normalized window against the normalized term, and keeps the highest
// score at or above minConfidence. Within scoreDelta, longer terms win,
// then earlier lines, then earlier offsets. Returns nil when nothing
// clears the threshold; callers treat that as a normal outcome.
func findLabel(lines []Line, terms []string, minConfidence float64) *Match {
	var best *Match
	for _, term := range terms {
		normTerm := normalizeForMatch(term)
		if normTerm == "" {
			continue
		}
		termTokens := len(strings.Fields(term))
		for lineIdx, line := range lines {
			for start := 0; start < len(line.Tokens); start++ {
				maxWidth := termTokens + 1
				if rest := len(line.Tokens) - start; rest < maxWidth {
					maxWidth = rest
				}
				window := ""
				for width := 1; width <= maxWidth; width++ {
					window += normalizeForMatch(line.Tokens[start+width-1])
					score := Similarity(window, normTerm)
					if score < minConfidence {
						continue
					}
					cand := &Match{
						Label:      term,
						Matched:    strings.Join(line.Tokens[start:start+width], " "),
						Confidence: score,
						LineIndex:  lineIdx,
						TokenStart: start,
						TokenEnd:   start + width,
					}
					if betterMatch(cand, best) {
						best = cand
					}
				}
			}
		}
	}
	return best
}

func betterMatch(cand, best *Match) bool {
	if best == nil {
		return true
	}
	d := cand.Confidence - best.Confidence
	if d > scoreDelta {
		return true
	}
	if d < -scoreDelta {
		return false
	}
	// Tie: prefer the more specific label, then document order.
	cl, bl := len(normalizeForMatch(cand.Label)), len(normalizeForMatch(best.Label))
	if cl != bl {
		return cl > bl
	}
	if cand.Confidence != best.Confidence {
		return cand.Confidence > best.Confidence
	}
	if cand.LineIndex != best.LineIndex {
		return cand.LineIndex < best.LineIndex
	}
	return cand.TokenStart < best.TokenStart
}

// lineMatchesAny reports whether any token window of the line fuzzy-matches
// one of the terms. Used for boundary detection (table header and totals
// rows) where only presence matters, not position.
func lineMatchesAny(line Line, terms []string, minConfidence float64) bool {
	return findLabel([]Line{line}, terms, minConfidence) != nil
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	n, m := len(r1), len(r2)

	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for j := 0; j <= m; j++ {
		prev[j] = j
	}

	for i := 1; i <= n; i++ {
		curr[0] = i
		for j := 1; j <= m; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = minOf3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

func minOf3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
