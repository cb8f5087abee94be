package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpilot/internal/ui/layout"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

// View renders the screen body for the given size.
func (s *Screen) View(width, height int) string {
	width = layout.ClampWidth(width)

	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if s.feedback && s.result != nil {
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func (s *Screen) progressLine(width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%s · %s", s.settings.Category, s.settings.Seniority))
	right := theme.Subtitle.Render(fmt.Sprintf("Q %d/%d", s.index, s.settings.MaxQuestions))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width))
}

func (s *Screen) renderQuestion(width int) string {
	var b strings.Builder
	b.WriteString(s.progressLine(width))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Q%d. ", s.index)))
	b.WriteString(theme.Body.Width(width - 4).Render(s.question))
	b.WriteString("\n\n")

	if s.hint != "" {
		b.WriteString(theme.Card.Width(width).Render(theme.Hint.Render("Hint: " + s.hint)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.input.View())

	if s.busy != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render(s.busy))
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.notice))
	}
	return b.String()
}

func (s *Screen) renderFeedback(width int) string {
	out := layout.Stack(s.progressLine(width), views.TurnResult(s.result, width))
	if s.done {
		out = layout.Stack(out, theme.Subtitle.Render("Review later with: careerpilot interview show "+s.settings.SessionID))
	}
	return out
}

func renderQuitConfirm(width int) string {
	body := theme.Title.Render("Stop this interview?") + "\n" +
		theme.Body.Render("Answers so far are saved. You can resume later with the same session.")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Highlight.Render(body))
}
