package practice

import "github.com/abhisek/careerpilot/internal/interview"

// turnDoneMsg is sent when an answer has been evaluated.
type turnDoneMsg struct {
	Result *interview.TurnResult
	Err    error
}

// hintDoneMsg is sent when a hint request returns.
type hintDoneMsg struct {
	Hint *interview.HintResult
	Err  error
}
