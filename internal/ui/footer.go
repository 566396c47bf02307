package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// footerHint defines a key hint for the footer bar.
// These are intentionally shorter than the KeyMap help text.
type footerHint struct {
	key  string
	desc string
}

var globalFooterHints = []footerHint{
	{"/", "Search"},
	{"s/p", "Filter"},
	{"o", "Sort"},
	{"n", "New"},
	{"q", "Quit"},
	{"?", "Help"},
}

var listFooterHints = []footerHint{
	{"↑↓", "Navigate"},
	{"⏎", "Detail"},
	{"[ ]", "Page"},
}

var detailFooterHints = []footerHint{
	{"↑↓", "Scroll"},
	{"e", "Edit"},
	{"Esc", "Close"},
}

var searchFooterHints = []footerHint{
	{"⏎", "Done"},
	{"Esc", "Clear"},
}

// renderFooter renders the footer bar with pill-style key hints and the
// backend address on the right.
func (m *App) renderFooter() string {
	var hints []footerHint
	switch {
	case m.searching:
		hints = searchFooterHints
	case m.detailVisible():
		hints = append(append(hints, detailFooterHints...), globalFooterHints...)
	default:
		hints = append(append(hints, listFooterHints...), globalFooterHints...)
	}

	right := ""
	if m.apiURL != "" {
		right = styleFooterMuted.Render(m.apiURL)
	}
	rightWidth := lipgloss.Width(right)

	hints = trimHintsToFit(hints, m.width-rightWidth-4)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyPill(h.key, h.desc)
	}
	left := strings.Join(parts, "  ")

	spacing := max(m.width-lipgloss.Width(left)-rightWidth, 2)
	return left + strings.Repeat(" ", spacing) + right
}

// trimHintsToFit drops hints from the end until the rest fit in width.
func trimHintsToFit(hints []footerHint, width int) []footerHint {
	for len(hints) > 0 {
		total := 0
		for i, h := range hints {
			if i > 0 {
				total += 2
			}
			total += lipgloss.Width(keyPill(h.key, h.desc))
		}
		if total <= width {
			return hints
		}
		hints = hints[:len(hints)-1]
	}
	return hints
}

// keyPill renders a single key hint as a pill with description.
func keyPill(key, desc string) string {
	return styleKeyPill.Render(" "+key+" ") + " " + styleKeyDesc.Render(desc)
}
