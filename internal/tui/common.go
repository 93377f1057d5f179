package tui

import "github.com/charmbracelet/lipgloss"

// Color palette matching the fatih/color output of the text mode
var (
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	ColorCyan = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}

	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}

	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

// Reusable styles
var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleOwned marks listings already purchased or published by the user
	StyleOwned = lipgloss.NewStyle().Foreground(ColorGreen)

	// StylePrice is for STX amounts
	StylePrice = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleInactive is for deactivated listings
	StyleInactive = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)
)
