package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorAccent    = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	LocationStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	CaretStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)
