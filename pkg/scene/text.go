package scene

import "strings"

// Approximate glyph metrics for a proportional sans-serif face.
const (
	fontCharWidth  = 0.55
	lineHeightRate = 1.2
	labelPadding   = 10
)

// Font sizes and label anchors per display type.
var (
	fontSizes = map[string]float64{"region": 18, "plant": 16, "area": 14}
	labelTops = map[string]float64{"region": 25, "plant": 20, "area": 20, "location": 12}
)

const defaultFontSize = 11

// TextWidth estimates the rendered width of s at the given font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * fontCharWidth
}

// WrapText breaks s into lines no wider than width at fontSize. Words are
// kept whole where possible; a word wider than the line is split. Existing
// newlines are honored. A non-positive width returns s unwrapped.
func WrapText(s string, width, fontSize float64) []string {
	if width <= 0 || fontSize <= 0 {
		return strings.Split(s, "\n")
	}
	maxChars := max(1, int(width/(fontSize*fontCharWidth)))

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(para, maxChars)...)
	}
	return lines
}

func wrapParagraph(para string, maxChars int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}
	for _, w := range words {
		word := []rune(w)
		for len(word) > maxChars {
			flush()
			lines = append(lines, string(word[:maxChars]))
			word = word[maxChars:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, word...)
		case len(cur)+1+len(word) <= maxChars:
			cur = append(cur, ' ')
			cur = append(cur, word...)
		default:
			flush()
			cur = append(cur, word...)
		}
	}
	flush()
	return lines
}
