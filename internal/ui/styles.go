package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Add-input box, by state
	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StyleInputBoxFocused = StyleInputBox.
				BorderForeground(ColorPrimary)

	StyleInputBoxError = StyleInputBox.
				BorderForeground(ColorError)

	// Rows
	StyleCursor    = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleCompleted = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)
)
