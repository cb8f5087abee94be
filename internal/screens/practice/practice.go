// Package practice is the interactive mock-interview screen.
package practice

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/ui/components"
	"github.com/abhisek/careerpilot/internal/ui/layout"
)

// Coach is the part of interview.Service the screen drives.
type Coach interface {
	SubmitTurn(ctx context.Context, in interview.TurnInput) (*interview.TurnResult, error)
	RequestHint(ctx context.Context, in interview.HintInput) (*interview.HintResult, error)
}

// Settings configure one practice session.
type Settings struct {
	SessionID     string
	UserID        string
	Role          string
	Category      string
	Seniority     string
	FocusTopics   string
	MaxQuestions  int
	FirstQuestion string
}

// FirstQuestion is the opener used when none is configured.
func FirstQuestion(role string) string {
	return fmt.Sprintf("Tell me about yourself and what draws you to a %s role.", role)
}

// Screen runs the question, answer and feedback loop.
type Screen struct {
	ctx      context.Context
	coach    Coach
	settings Settings

	question string
	index    int
	input    components.TextInput

	hint        string
	busy        string // non-empty while a request is in flight
	notice      string
	result      *interview.TurnResult
	feedback    bool
	confirmQuit bool
	done        bool
	stopped     bool
	err         error
}

// New creates a Screen positioned at the first question.
func New(ctx context.Context, coach Coach, settings Settings) *Screen {
	if settings.FirstQuestion == "" {
		settings.FirstQuestion = FirstQuestion(settings.Role)
	}
	return &Screen{
		ctx:      ctx,
		coach:    coach,
		settings: settings,
		question: settings.FirstQuestion,
		index:    1,
		input:    newInput(),
	}
}

func newInput() components.TextInput {
	return components.NewTextInput("Type your answer, /hint or /quit", components.AnswerCharLimit)
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return fmt.Sprintf("Interview · %s", s.settings.Role)
}

// Finished reports whether the interview reached its final report.
func (s *Screen) Finished() bool { return s.done }

// Result is the last evaluated turn, if any.
func (s *Screen) Result() *interview.TurnResult { return s.result }

// Err is the error that ended the screen, if any.
func (s *Screen) Err() error { return s.err }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{{Key: "Y", Description: "Stop"}, {Key: "N", Description: "Keep going"}}
	case s.busy != "":
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Abort"}}
	case s.feedback && s.done:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	case s.feedback:
		return []layout.KeyHint{{Key: "any key", Description: "Next question"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Tab", Description: "Hint"},
		{Key: "Esc", Description: "Stop"},
	}
}

func (s *Screen) Update(msg tea.Msg) (*Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		return s.handleTurn(msg)
	case hintDoneMsg:
		return s.handleHint(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) handleKey(msg tea.KeyMsg) (*Screen, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		s.stopped = true
		return s, tea.Quit
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.stopped = true
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.busy != "" {
		return s, nil
	}

	if s.feedback {
		if s.done {
			return s, tea.Quit
		}
		s.advance()
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "tab":
		return s, s.requestHint()
	case "enter":
		return s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) submit() (*Screen, tea.Cmd) {
	if c, ok := s.input.Command(); ok {
		s.input.Clear()
		switch c {
		case "/hint":
			return s, s.requestHint()
		case "/quit":
			s.confirmQuit = true
			return s, nil
		}
		s.notice = fmt.Sprintf("Unknown command %s", c)
		return s, nil
	}

	answer := s.input.Value()
	if answer == "" {
		return s, nil
	}
	s.notice = ""
	s.busy = "Evaluating your answer..."
	s.input.Lock()

	in := interview.TurnInput{
		SessionID:       s.settings.SessionID,
		UserID:          s.settings.UserID,
		Role:            s.settings.Role,
		Category:        s.settings.Category,
		Seniority:       s.settings.Seniority,
		FocusTopics:     s.settings.FocusTopics,
		CurrentQuestion: s.question,
		UserAnswer:      answer,
		QuestionIndex:   s.index,
		MaxQuestions:    s.settings.MaxQuestions,
	}
	ctx, coach := s.ctx, s.coach
	return s, func() tea.Msg {
		res, err := coach.SubmitTurn(ctx, in)
		return turnDoneMsg{Result: res, Err: err}
	}
}

func (s *Screen) requestHint() tea.Cmd {
	if s.hint != "" {
		return nil
	}
	s.notice = ""
	s.busy = "Fetching a hint..."
	s.input.Lock()

	in := interview.HintInput{
		SessionID:       s.settings.SessionID,
		UserID:          s.settings.UserID,
		Role:            s.settings.Role,
		Category:        s.settings.Category,
		Seniority:       s.settings.Seniority,
		FocusTopics:     s.settings.FocusTopics,
		MaxQuestions:    s.settings.MaxQuestions,
		CurrentQuestion: s.question,
		QuestionIndex:   s.index,
	}
	ctx, coach := s.ctx, s.coach
	return func() tea.Msg {
		h, err := coach.RequestHint(ctx, in)
		return hintDoneMsg{Hint: h, Err: err}
	}
}

func (s *Screen) handleTurn(msg turnDoneMsg) (*Screen, tea.Cmd) {
	s.busy = ""
	s.input.Unlock()
	if msg.Err != nil {
		return s.recoverable(msg.Err, "Evaluation failed, submit your answer again.")
	}

	s.result = msg.Result
	s.feedback = true
	s.hint = ""
	s.input.Clear()
	if msg.Result.FinalReport != nil {
		s.done = true
	}
	return s, nil
}

func (s *Screen) handleHint(msg hintDoneMsg) (*Screen, tea.Cmd) {
	s.busy = ""
	s.input.Unlock()
	if msg.Err != nil {
		return s.recoverable(msg.Err, "Hint unavailable, try again.")
	}
	s.hint = msg.Hint.Hint
	return s, nil
}

// recoverable keeps the screen alive for delegate and input errors and
// quits on anything else.
func (s *Screen) recoverable(err error, delegateNotice string) (*Screen, tea.Cmd) {
	switch {
	case apperr.IsDelegate(err):
		s.notice = delegateNotice
		return s, nil
	case apperr.IsValidation(err), apperr.IsConflict(err):
		s.notice = err.Error()
		return s, nil
	}
	s.err = err
	return s, tea.Quit
}

func (s *Screen) advance() {
	s.question = s.result.NextQuestion
	s.index = s.result.QuestionIndex + 1
	s.feedback = false
	s.notice = ""
	s.input = newInput()
}
