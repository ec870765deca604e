// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapLine word-wraps a single line to the given display width,
// measuring with runewidth so wide scripts lay out correctly.
func wrapLine(line string, width int) []string {
	if width <= 0 {
		return []string{line}
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	var b strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth == 0 {
			b.WriteString(word)
			lineWidth = w
			continue
		}
		if lineWidth+1+w > width {
			out = append(out, b.String())
			b.Reset()
			b.WriteString(word)
			lineWidth = w
			continue
		}
		b.WriteByte(' ')
		b.WriteString(word)
		lineWidth += 1 + w
	}
	out = append(out, b.String())
	return out
}
