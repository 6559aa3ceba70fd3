package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/oil/internal/render"
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(render.ColorMuted).
			Italic(true)

	// Entry styles
	PromptStyle = lipgloss.NewStyle().
			Foreground(render.ColorSecondary).
			Bold(true)

	KindStyle = lipgloss.NewStyle().
			Foreground(render.ColorAccent)

	// Status styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(render.ColorFg).
			Padding(0, 1)

	// Input style
	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(render.ColorPrimary).
				Padding(0, 1)

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(render.ColorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(render.ColorPrimary).
			Bold(true).
			Underline(true)
)
