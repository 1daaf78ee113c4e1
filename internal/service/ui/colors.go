// Package ui holds the terminal styles shared by the CLI help and the ask
// command output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// ANSI colors so the palette follows the user's terminal theme
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	AnswerStyle = lipgloss.NewStyle().PaddingLeft(2)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)
