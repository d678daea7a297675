package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// sanitize removes control characters and invalid UTF-8 so bad metadata
// cannot break terminal rendering.
func sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			i++
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			i += size
			continue
		}
		// Non-breaking space renders oddly in some terminals.
		if r == '\u00a0' {
			b.WriteByte(' ')
			i += size
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		if b < 0x20 && b != '\t' {
			return true
		}
		if b >= 0x80 && b <= 0x9f {
			return true
		}
		if b == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0 {
			return true
		}
	}
	return false
}

// truncate shortens a string to maxWidth, ellipsis if cut. Uses runewidth
// so wide characters count properly.
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(sanitize(s), maxWidth, "…")
}

// pad fills a string with spaces to the given width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// truncateAndPad makes the output exactly width cells wide.
func truncateAndPad(s string, width int) string {
	return pad(truncate(s, width), width)
}

// row lays out left and right aligned content within width.
func row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
