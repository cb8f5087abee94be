package interview

import (
	"strings"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/store"
)

// Category is the kind of interview being practiced.
type Category string

const (
	CategoryTechnical    Category = "TECHNICAL"
	CategoryBehavioral   Category = "BEHAVIORAL"
	CategorySystemDesign Category = "SYSTEM_DESIGN"
	CategoryMixed        Category = "MIXED"
)

// Seniority is the level the candidate is interviewing for.
type Seniority string

const (
	SeniorityJunior Seniority = "JUNIOR"
	SeniorityMid    Seniority = "MID"
	SenioritySenior Seniority = "SENIOR"
	SeniorityStaff  Seniority = "STAFF"
)

// HiringSuggestion is the final hiring tier of a report.
type HiringSuggestion string

const (
	StrongHire   HiringSuggestion = "Strong Hire"
	Hire         HiringSuggestion = "Hire"
	NoHire       HiringSuggestion = "No Hire"
	StrongNoHire HiringSuggestion = "Strong No Hire"
)

// Defaults applied to new sessions.
const (
	DefaultRole         = "Software Engineer"
	DefaultCategory     = CategoryTechnical
	DefaultSeniority    = SeniorityMid
	DefaultMaxQuestions = 7
	maxQuestionsLimit   = 50
)

// ParseCategory normalizes s. Empty input yields DefaultCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch c := Category(strings.ReplaceAll(s, "-", "_")); c {
	case "":
		return DefaultCategory, nil
	case CategoryTechnical, CategoryBehavioral, CategorySystemDesign, CategoryMixed:
		return c, nil
	}
	return "", apperr.Invalid("category", "unknown interview category %q", s)
}

// ParseSeniority normalizes s. Empty input yields DefaultSeniority.
func ParseSeniority(s string) (Seniority, error) {
	switch v := Seniority(strings.ToUpper(strings.TrimSpace(s))); v {
	case "":
		return DefaultSeniority, nil
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityStaff:
		return v, nil
	}
	return "", apperr.Invalid("seniority", "unknown seniority %q", s)
}

// TierFor maps an average score onto the hiring tier.
func TierFor(avg int) HiringSuggestion {
	switch {
	case avg >= 85:
		return StrongHire
	case avg >= 70:
		return Hire
	case avg >= 50:
		return NoHire
	default:
		return StrongNoHire
	}
}

// EvalConfig is the session context passed to the evaluator.
type EvalConfig struct {
	Role          string
	Category      Category
	Seniority     Seniority
	FocusTopics   string
	QuestionIndex int // 1-based number of the question being answered
	MaxQuestions  int
	HintUsed      bool
}

// Evaluation is the scored outcome of one answer.
type Evaluation struct {
	Feedback      string   `json:"feedback"`
	Score         int      `json:"score"`
	ModelAnswer   string   `json:"betterAnswer"`
	NextQuestion  string   `json:"nextQuestion"`
	IsOver        bool     `json:"isInterviewOver"`
	TopicsCovered []string `json:"topicsCovered"`
}

// HintConfig is the context a hint is calibrated for.
type HintConfig struct {
	Role      string
	Category  Category
	Seniority Seniority
}

// ReportConfig is the context of a finished interview.
type ReportConfig struct {
	Role      string
	Category  Category
	Seniority Seniority
}

// TopicScore is one entry of a report's per-topic breakdown.
type TopicScore struct {
	Topic string `json:"topic"`
	Score int    `json:"score"`
}

// Report is the final summary of a completed interview.
type Report struct {
	OverallScore     int              `json:"overallScore"`
	AverageScore     int              `json:"averageScore"`
	Strengths        []string         `json:"strengths"`
	Weaknesses       []string         `json:"weaknesses"`
	TopicBreakdown   []TopicScore     `json:"topicBreakdown"`
	Recommendation   string           `json:"recommendation"`
	NextSteps        []string         `json:"nextSteps"`
	HiringSuggestion HiringSuggestion `json:"hiringSuggestion"`
}

// TurnInput is one submitted answer.
type TurnInput struct {
	SessionID       string `json:"sessionId,omitempty"`
	UserID          string `json:"userId,omitempty"`
	Role            string `json:"role,omitempty"`
	Category        string `json:"category,omitempty"`
	Seniority       string `json:"seniority,omitempty"`
	FocusTopics     string `json:"focusTopics,omitempty"`
	CurrentQuestion string `json:"currentQuestion"`
	UserAnswer      string `json:"userAnswer"`
	QuestionIndex   int    `json:"questionIndex,omitempty"` // 1-based; 0 lets the session decide
	MaxQuestions    int    `json:"maxQuestions,omitempty"`
	HintUsed        bool   `json:"hintUsed,omitempty"`
}

// TurnResult is the outcome of SubmitTurn.
type TurnResult struct {
	SessionID       string   `json:"sessionId"`
	Feedback        string   `json:"feedback"`
	Score           int      `json:"score"`
	BetterAnswer    string   `json:"betterAnswer"`
	NextQuestion    string   `json:"nextQuestion"`
	IsInterviewOver bool     `json:"isInterviewOver"`
	TopicsCovered   []string `json:"topicsCovered"`
	SessionTopics   []string `json:"sessionTopics"`
	QuestionIndex   int      `json:"questionIndex"` // answered questions so far
	FinalReport     *Report  `json:"finalReport"`
}

// HintInput requests a hint for the current question.
type HintInput struct {
	SessionID       string `json:"sessionId,omitempty"`
	UserID          string `json:"userId,omitempty"`
	Role            string `json:"role,omitempty"`
	Category        string `json:"category,omitempty"`
	Seniority       string `json:"seniority,omitempty"`
	FocusTopics     string `json:"focusTopics,omitempty"`
	MaxQuestions    int    `json:"maxQuestions,omitempty"`
	CurrentQuestion string `json:"currentQuestion"`
	QuestionIndex   int    `json:"questionIndex,omitempty"`
}

// HintResult carries the hint and whether it was served from the session.
type HintResult struct {
	Hint          string `json:"hint"`
	QuestionIndex int    `json:"questionIndex,omitempty"`
	Cached        bool   `json:"cached"`
}

// SessionView is a stored session with its full transcript.
type SessionView struct {
	Session *store.InterviewSession `json:"session"`
	Turns   []store.Turn            `json:"turns"`
	Report  *Report                 `json:"report,omitempty"`
}
