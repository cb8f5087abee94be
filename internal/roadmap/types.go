package roadmap

import "github.com/abhisek/careerpilot/internal/store"

// ResourceType classifies a learning link by where it points.
type ResourceType string

const (
	TypeYouTube     ResourceType = "YOUTUBE"
	TypeGitHub      ResourceType = "GITHUB"
	TypeInteractive ResourceType = "INTERACTIVE"
	TypeArticle     ResourceType = "ARTICLE"
	TypeDocs        ResourceType = "DOCS"
)

// Milestone difficulty levels.
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
)

// TimeBox is a duration constraint parsed out of a goal.
type TimeBox struct {
	Value       int    `json:"value"`
	Unit        string `json:"unit"` // hours, days, weeks or months
	IsIntensive bool   `json:"isIntensive"`
}

// PlannedMilestone is one step of the plan before enrichment.
type PlannedMilestone struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Duration       int    `json:"duration"`
	DurationUnit   string `json:"durationUnit"`
	EstimatedHours int    `json:"estimatedHours"`
	Difficulty     string `json:"difficulty"`
}

// Candidate is a classified search result considered for a milestone.
type Candidate struct {
	Title string
	URL   string
	Type  ResourceType
	Score float64
}

// QuizQuestion is a multiple-choice question about a milestone.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// GenerateInput is a roadmap generation request.
type GenerateInput struct {
	Goal   string `json:"goal"`
	UserID string `json:"userId"`
}

// Result describes a generated and stored roadmap.
type Result struct {
	RoadmapID    string         `json:"roadmapId"`
	Roadmap      *store.Roadmap `json:"-"`
	TimeBox      *TimeBox       `json:"timeBox,omitempty"`
	FallbackPlan bool           `json:"fallbackPlan"`
}
