package practice

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpilot/internal/ui/layout"
)

// model frames the screen with a header and key-hint footer.
type model struct {
	screen *Screen
	width  int
	height int
}

func (m model) Init() tea.Cmd {
	return m.screen.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		return m, nil
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 {
		return v
	}

	width := min(m.width, 100)
	header := layout.RenderHeader(m.screen.Title(), 0, 0, 0, width)
	footer := layout.RenderFooter(m.screen.KeyHints(), width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Height(contentHeight).Render(m.screen.View(width-2, contentHeight))

	v.SetContent(header + "\n" + content + "\n" + footer)
	return v
}

// Run takes over the terminal until the interview ends or the user stops.
// The returned screen holds the last result.
func Run(ctx context.Context, coach Coach, settings Settings) (*Screen, error) {
	s := New(ctx, coach, settings)
	p := tea.NewProgram(model{screen: s}, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return s, err
	}
	if m, ok := final.(model); ok {
		s = m.screen
	}
	return s, s.Err()
}
