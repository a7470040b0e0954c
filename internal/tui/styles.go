package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibwasm/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle     lipgloss.Style
	headerStyle    lipgloss.Style
	titleStyle     lipgloss.Style
	dimStyle       lipgloss.Style
	accentStyle    lipgloss.Style
	successStyle   lipgloss.Style
	warningStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	tableHeadStyle lipgloss.Style
	cpuSparkStyle  lipgloss.Style
	memSparkStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after ui.InitTheme so --no-color applies.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)
	headerStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	accentStyle = lipgloss.NewStyle().Foreground(t.Accent)
	successStyle = lipgloss.NewStyle().Foreground(t.Success)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	tableHeadStyle = lipgloss.NewStyle().Foreground(t.Dim).Underline(true)
	cpuSparkStyle = lipgloss.NewStyle().Foreground(t.Accent)
	memSparkStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
