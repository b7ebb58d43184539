package command

import (
	"strings"

	"Blackjack/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
)

// Text renders the reply for a terminal.
func (r Reply) Text() string {
	var parts []string
	if r.Error != "" {
		parts = append(parts, errorStyle.Render(r.Error))
	}
	for _, n := range r.Notices {
		parts = append(parts, noticeStyle.Render(n))
	}
	if r.View != nil {
		parts = append(parts, ui.Display(*r.View))
	}
	if r.Stats != nil {
		parts = append(parts, ui.Stats(*r.Stats))
	}
	if r.Rules != nil {
		parts = append(parts, ui.Rules(*r.Rules))
	}
	if len(r.Help) > 0 {
		parts = append(parts, strings.Join(r.Help, "\n"))
	}
	return strings.Join(parts, "\n")
}
