package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// styles renders terminal output. With color off every method returns its
// input unchanged.
type styles struct {
	color bool

	number  lipgloss.Style
	str     lipgloss.Style
	literal lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

func newStyles(color bool) styles {
	return styles{
		color:   color,
		number:  lipgloss.NewStyle().Foreground(colorAccent),
		str:     lipgloss.NewStyle().Foreground(colorSecondary),
		literal: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		err:     lipgloss.NewStyle().Foreground(colorError),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		header:  lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
	}
}

// paint renders text line by line so multi-line output keeps its exact
// shape
func (s styles) paint(style lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// value styles a displayed Lox value by its kind
func (s styles) value(kind, text string) string {
	switch kind {
	case "number":
		return s.paint(s.number, text)
	case "string":
		return s.paint(s.str, text)
	default:
		return s.paint(s.literal, text)
	}
}

// status styles an evaluation status name
func (s styles) status(name string) string {
	if name == "ok" {
		return s.paint(s.str, name)
	}
	return s.paint(s.err, name)
}

func (s styles) errorText(text string) string {
	return s.paint(s.err, text)
}

func (s styles) mutedText(text string) string {
	return s.paint(s.muted, text)
}

func (s styles) headerText(text string) string {
	return s.paint(s.header, text)
}
