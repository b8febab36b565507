package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The slipway palette: emerald accents over slate neutrals.
var (
	accentGreen  = lipgloss.Color("#10b981")
	accentBright = lipgloss.Color("#34d399")
	accentRed    = lipgloss.Color("#ef4444")
	accentYellow = lipgloss.Color("#f59e0b")
	accentDim    = lipgloss.Color("#64748b")

	successStyle = lipgloss.NewStyle().Foreground(accentGreen)
	infoStyle    = lipgloss.NewStyle().Foreground(accentDim)
	warnStyle    = lipgloss.NewStyle().Foreground(accentYellow)
	failStyle    = lipgloss.NewStyle().Foreground(accentRed).Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(accentBright).
			Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(accentBright).
			Underline(true)

	dimStyle = lipgloss.NewStyle().Foreground(accentDim)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentGreen).
			Padding(0, 2)
)

// Success prints a green checkmark line.
func Success(msg string) {
	fmt.Println(successStyle.Render("✅ " + msg))
}

// Info prints a neutral informational line.
func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

// Warn prints a yellow warning line.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠️  " + msg))
}

// Fail prints a red failure line.
func Fail(msg string) {
	fmt.Println(failStyle.Render("❌ " + msg))
}

// Step prints a numbered pipeline progress header.
func Step(n, total int, msg string) {
	fmt.Println()
	fmt.Println(stepStyle.Render(fmt.Sprintf("[%d/%d] %s", n, total, msg)))
}

// URL styles a clickable address.
func URL(url string) string {
	return urlStyle.Render(url)
}

// Box renders lines inside a rounded summary border.
func Box(lines []string) string {
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// LogTail prints the captured tail of a log file, dimmed, under a header.
func LogTail(path string, lines []string) {
	if len(lines) == 0 {
		Info("Log file " + path + " is empty")
		return
	}

	fmt.Println(dimStyle.Render("── last lines of " + path + " ──"))
	for _, line := range lines {
		fmt.Println(dimStyle.Render("  " + line))
	}
}
