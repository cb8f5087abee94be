// Package mentor answers study questions about a roadmap milestone. A
// mentor can teach in conversation, explain a topic from scratch, or pose
// a single multiple-choice check.
package mentor

import (
	"strings"

	"github.com/abhisek/careerpilot/internal/apperr"
)

// Mode selects how the mentor responds.
type Mode string

const (
	ModeTeach   Mode = "teach"
	ModeQuiz    Mode = "quiz"
	ModeExplain Mode = "explain"
)

// ParseMode accepts a mode name case-insensitively. Empty and "chat"
// mean teach.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chat", string(ModeTeach):
		return ModeTeach, nil
	case string(ModeQuiz):
		return ModeQuiz, nil
	case string(ModeExplain):
		return ModeExplain, nil
	}
	return "", apperr.Invalid("mode", "unknown mode %q (teach, quiz, explain)", s)
}

// Speaker of a chat message.
const (
	SpeakerUser   = "user"
	SpeakerMentor = "ai"
)

// Message is one earlier exchange in the chat.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request is one mentor turn. Topic is the milestone or concept being
// studied; Message is required in teach mode.
type Request struct {
	UserID  string    `json:"userId,omitempty"`
	Mode    string    `json:"mode,omitempty"`
	Topic   string    `json:"topic"`
	Message string    `json:"message,omitempty"`
	History []Message `json:"chatHistory,omitempty"`
}

// Quiz is a single multiple-choice question.
type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Reply carries markdown for teach and explain, or a quiz.
type Reply struct {
	Mode    Mode   `json:"mode"`
	Content string `json:"content,omitempty"`
	Quiz    *Quiz  `json:"quiz,omitempty"`

	// Fallback is set when the quiz is the fixed fallback question.
	Fallback bool `json:"fallback,omitempty"`
}
