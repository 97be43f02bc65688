package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"auxl/internal/review"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#4C3FB8", Dark: "#A59DFF"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#1E7F3C", Dark: "#5FD787"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#FFD75F"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#FF6B6B"}
)

// styleSet is the palette for interactive output.
type styleSet struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

var styles = styleSet{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 1),
}

// renderHeader summarizes the session on one line.
func renderHeader(v statusView) string {
	parts := []string{
		styles.Title.Render("auxl"),
		fmt.Sprintf("paper %d of %d", v.Position, v.Papers),
		fmt.Sprintf("%d/%d reviewed (%s)", v.Reviewed, v.Papers, formatPercent(v.Percentage)),
		stateBadge(v.State),
	}
	return styles.Box.Render(strings.Join(parts, styles.Muted.Render(" · ")))
}

func stateBadge(state string) string {
	switch state {
	case review.StateBoundClean.String():
		return styles.Success.Render(state)
	case review.StateBoundDirty.String():
		return styles.Warning.Render(state)
	default:
		return styles.Muted.Render(state)
	}
}

func renderNotice(format string, args ...any) string {
	return styles.Success.Render(fmt.Sprintf(format, args...))
}

func renderProblem(err error) string {
	return styles.Error.Render("✗ " + err.Error())
}
