package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fullWidth covers CJK symbols through unified ideographs, compatibility
// ideographs, and the halfwidth/fullwidth forms block.
var fullWidth = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x9fff, Stride: 1},
		{Lo: 0xf900, Hi: 0xfaff, Stride: 1},
		{Lo: 0xff00, Hi: 0xffef, Stride: 1},
	},
}

func IsFullWidth(r rune) bool {
	return unicode.Is(fullWidth, r)
}

// HalfUnits is the cell width of r in half-width units: 2 for full-width
// characters, 1 for everything else.
func HalfUnits(r rune) int {
	if IsFullWidth(r) {
		return 2
	}
	return 1
}

// WrapLines splits text into display lines no wider than budget full-width
// cells. Paragraphs are split on newlines; a blank paragraph yields an empty
// line. Wrapping is greedy: the character that would overflow starts the
// next line.
func WrapLines(text string, budget int) []string {
	limit := budget * 2
	if limit <= 0 {
		limit = 1
	}

	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
	paragraphs := strings.Split(text, "\n")
	lines := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		used := 0
		for _, r := range paragraph {
			w := HalfUnits(r)
			if used+w > limit && used > 0 {
				lines = append(lines, line.String())
				line.Reset()
				used = 0
			}
			line.WriteRune(r)
			used += w
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
