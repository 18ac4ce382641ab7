package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table Styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Align(lipgloss.Center)

	TableSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorPass)

	TableWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarn)

	TableBorderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// NewStatusTable creates a table with the default status styling.
func NewStatusTable(width int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
		})
}
