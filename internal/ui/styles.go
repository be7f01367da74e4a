package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI chrome
type Styles struct {
	Brand          lipgloss.Style
	Tagline        lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	Indicator      lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style
	Banner         lipgloss.Style
	BannerReady    lipgloss.Style
	BannerLoading  lipgloss.Style
	Hint           lipgloss.Style
	Jump           lipgloss.Style
	JumpMatch      lipgloss.Style
	Status         lipgloss.Style
	StatusError    lipgloss.Style
	ErrorTitle     lipgloss.Style
	ErrorBox       lipgloss.Style
	Dim            lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Brand:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("222")),
		Tagline:        lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246")),
		Button:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("94")),
		ButtonDisabled: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("236")),
		Indicator:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Tab:            lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		TabActive:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214")),
		Banner:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		BannerReady:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),  // green
		BannerLoading:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),             // cyan
		Hint:           lipgloss.NewStyle().Faint(true),
		Jump:           lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		JumpMatch:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		ErrorTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("241")),
		Dim: lipgloss.NewStyle().Faint(true),
	}
}
