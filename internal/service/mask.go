package service

import "strings"

var hiddenKeywords = []string{"hidden", "hide", "secret", "private", "wip", "temp"}

var maskPalette = []rune{'█', '▌', '▎', '▏', '▊', '▋', '▍'}

// IsHidden reports whether a commit message asks to be masked. Matching is a
// case-insensitive substring test, so "[wip]", "(secret)" and "template"
// all match.
func IsHidden(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range hiddenKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Mask replaces every rune except spaces and ":()[]" with a block glyph
// picked by (code point + rune index) mod 7. Output has the same rune count
// as the input.
func Mask(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 3)

	i := 0
	for _, r := range text {
		switch r {
		case ' ', ':', '(', ')', '[', ']':
			b.WriteRune(r)
		default:
			b.WriteRune(maskPalette[(int(r)+i)%len(maskPalette)])
		}
		i++
	}
	return b.String()
}
