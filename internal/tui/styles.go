package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWhite   = lipgloss.Color("#F9FAFB")

	// Logo style
	styleLogo = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Subtitle
	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleLabel = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	// Input boxes
	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	styleBoxFocused = styleBox.
			BorderForeground(colorPrimary)

	// Action button
	styleButton = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPrimary).
			Padding(0, 2).
			MarginTop(1)

	styleButtonDisabled = styleButton.
				Background(colorMuted)

	styleError = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1).
			MarginTop(1)

	styleResult = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSuccess).
			Padding(0, 1).
			MarginTop(1)

	styleCopied = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
