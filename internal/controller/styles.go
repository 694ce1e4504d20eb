package controller

import "github.com/charmbracelet/lipgloss"

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const (
	passLabel = "[PASS]"
	failLabel = "[FAIL]"
	warnLabel = "[Warning]"
)
