// Package tui is the interactive editor behind `wxcomp config`.
package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#06AD56", Dark: "#07C160"}
	okColor     = lipgloss.AdaptiveColor{Light: "#06AD56", Dark: "#95EC69"}
	failColor   = lipgloss.AdaptiveColor{Light: "#E64340", Dark: "#FA5151"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}
	noticeColor = lipgloss.AdaptiveColor{Light: "#C87D0A", Dark: "#FFC300"}

	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	DescriptionStyle = lipgloss.NewStyle().Foreground(dimColor)
	SuccessStyle     = lipgloss.NewStyle().Foreground(okColor)
	ErrorStyle       = lipgloss.NewStyle().Foreground(failColor)
	SelectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	UnselectedStyle  = lipgloss.NewStyle()
	HelpStyle        = lipgloss.NewStyle().MarginTop(1)

	// ConfirmStyle frames the unsaved changes prompt
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(noticeColor).
			Padding(1, 2)
)

// GetTheme returns the huh theme for forms
func GetTheme() *huh.Theme {
	return huh.ThemeCharm()
}

// GetAccessibleTheme returns a theme without colors for screen readers
func GetAccessibleTheme() *huh.Theme {
	return huh.ThemeBase()
}
