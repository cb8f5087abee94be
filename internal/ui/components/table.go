package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/careerpilot/internal/ui/theme"
)

// Table renders rows under a bold header row with rounded borders.
func Table(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.Render()
}

// Bullets renders items as a dimmed-marker list.
func Bullets(items []string) string {
	marker := lipgloss.NewStyle().Foreground(theme.Secondary).Render("•")
	out := ""
	for i, it := range items {
		if i > 0 {
			out += "\n"
		}
		out += marker + " " + theme.Body.Render(it)
	}
	return out
}
