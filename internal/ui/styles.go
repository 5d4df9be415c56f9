package ui

import "github.com/charmbracelet/lipgloss"

// accentHex is the one accent color used for paths, headings, and
// highlights. Status coloring stays with the unicode symbols; primary text
// keeps the terminal default.
const accentHex = "#7AA2F7"

var (
	// Accent style for file paths, note types, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex)).Bold(true)
)
