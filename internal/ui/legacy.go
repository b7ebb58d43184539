package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var legacyColours = map[byte]string{
	'0': "#000000", '1': "#0000AA", '2': "#00AA00", '3': "#00AAAA",
	'4': "#AA0000", '5': "#AA00AA", '6': "#FFAA00", '7': "#AAAAAA",
	'8': "#555555", '9': "#5555FF", 'a': "#55FF55", 'b': "#55FFFF",
	'c': "#FF5555", 'd': "#FF55FF", 'e': "#FFFF55", 'f': "#FFFFFF",
}

// Legacy renders text carrying "&" colour codes (as used in announcement
// templates). A colour code resets formatting; "&r" resets everything.
func Legacy(s string) string {
	var (
		out   strings.Builder
		run   strings.Builder
		style = lipgloss.NewStyle()
	)
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(style.Render(run.String()))
			run.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '&' || i+1 >= len(s) {
			run.WriteByte(s[i])
			continue
		}
		code := s[i+1] | 0x20 // lower-case letters, digits unchanged
		if hex, ok := legacyColours[code]; ok {
			flush()
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
			i++
			continue
		}
		switch code {
		case 'l':
			flush()
			style = style.Bold(true)
		case 'm':
			flush()
			style = style.Strikethrough(true)
		case 'n':
			flush()
			style = style.Underline(true)
		case 'o':
			flush()
			style = style.Italic(true)
		case 'r':
			flush()
			style = lipgloss.NewStyle()
		case 'k':
		default:
			run.WriteByte(s[i])
			continue
		}
		i++
	}
	flush()
	return out.String()
}
