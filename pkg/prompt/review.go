package prompt

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-ekonde/pkg/wizard"
)

// RenderReview draws the review summary as a bordered box with the fee on
// the last line.
func RenderReview(review wizard.Review, theme Theme) string {
	width := 0
	for _, row := range review.Rows {
		width = max(width, lipgloss.Width(row.Label))
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(width + 2)
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.AccentColor))

	lines := make([]string, 0, len(review.Rows)+3)
	lines = append(lines, accent.Render("Review Your Application"), "")
	for _, row := range review.Rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(row.Label), row.Value))
	}
	lines = append(lines, "", labelStyle.Render("Application Fee")+accent.Render(review.FeeLabel))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderColor)).
		Padding(0, 1)
	return box.Render(strings.Join(lines, "\n"))
}
