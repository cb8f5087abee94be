package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpilot/internal/ui/theme"
)

const (
	DefaultWidth = 72
	MinWidth     = 40
)

// Field is a label/value pair shown in a key-value block.
type Field struct {
	Label string
	Value string
}

// ClampWidth keeps a requested render width within usable bounds.
func ClampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return max(width, MinWidth)
}

// RenderHeader renders the banner with the learner's level, XP and streak.
func RenderHeader(title string, level, xp, streak int, width int) string {
	width = ClampWidth(width)

	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("CareerPilot")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := theme.XP.Render(fmt.Sprintf("Lv %d · %d XP", level, xp)) +
		"   " +
		lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render(fmt.Sprintf("🔥 %d day", streak))

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0) // border and padding

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(content)
}

// RenderSection renders a titled block.
func RenderSection(title, body string) string {
	if body == "" {
		return theme.Title.Render(title)
	}
	return theme.Title.Render(title) + "\n" + body
}

// RenderFields renders label/value pairs with aligned labels.
func RenderFields(fields []Field) string {
	w := 0
	for _, f := range fields {
		w = max(w, lipgloss.Width(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		label := theme.Label.Width(w + 2).Render(f.Label + ":")
		lines = append(lines, label+" "+theme.Body.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

// Stack joins non-empty blocks with a blank line between them.
func Stack(blocks ...string) string {
	kept := blocks[:0:0]
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

// KeyHint is a key binding shown in a footer.
type KeyHint struct {
	Key         string
	Description string
}

// RenderFooter renders key hints on one line.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
			" "+theme.Hint.Render(h.Description))
	}
	return lipgloss.NewStyle().
		Width(ClampWidth(width)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(" " + strings.Join(parts, "   "))
}
