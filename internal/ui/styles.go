package ui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	promptStyle = lipgloss.NewStyle().MarginTop(1)

	tileStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#F5E6C8"))
	ownTileStyle  = tileStyle.Background(lipgloss.Color("#7FD17F"))
	peerTileStyle = tileStyle.Background(lipgloss.Color("#8FB8E8"))
)
