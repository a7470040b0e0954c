// Package ui holds the colour themes shared by the CLI and the TUI.
// ANSI themes are used by plain terminal output; TUITheme carries the
// lipgloss colours for the dashboard. Both honour NO_COLOR.
package ui
