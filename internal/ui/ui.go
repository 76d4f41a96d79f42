// Package ui holds the terminal styles shared by the CLI, the monitor
// and the plugin loader.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	Accent  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	Success = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	Warn    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	Alert   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	Plain   = lipgloss.NewStyle()
)

// Successf prints a green bold line to stdout.
func Successf(format string, args ...any) {
	fmt.Println(Success.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow bold line to stdout.
func Warnf(format string, args ...any) {
	fmt.Println(Warn.Render(fmt.Sprintf(format, args...)))
}

// Alertf prints a red bold line to stdout.
func Alertf(format string, args ...any) {
	fmt.Println(Alert.Render(fmt.Sprintf(format, args...)))
}

// Infof prints a cyan line to stdout.
func Infof(format string, args ...any) {
	fmt.Println(Muted.Render(fmt.Sprintf(format, args...)))
}
