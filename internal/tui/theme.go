package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the experiment browser. All colors
// are lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Trial status colors.
	StatusOK     lipgloss.Color
	StatusFailed lipgloss.Color
	StatusBroken lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	NoticeText       lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusOK:     lipgloss.Color("114"), // green
	StatusFailed: lipgloss.Color("196"), // red
	StatusBroken: lipgloss.Color("208"), // orange

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	NoticeText:       lipgloss.Color("220"), // amber
}
