package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int       // id > After
	Before  int       // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// User is the owner of roadmaps, resumes and progress.
type User struct {
	ID        string
	Email     string
	FullName  string
	CreatedAt time.Time
}

// UserRepo manages user rows.
type UserRepo interface {
	// EnsureUser creates the user if it does not exist. Existing rows are
	// left untouched.
	EnsureUser(ctx context.Context, u User) error

	// GetUser returns the user or apperr.ErrNotFound.
	GetUser(ctx context.Context, id string) (*User, error)
}

// SessionStatus is the lifecycle state of an interview session.
type SessionStatus string

const (
	SessionNotStarted SessionStatus = "NOT_STARTED"
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionComplete   SessionStatus = "COMPLETE"
)

// InterviewSession is the persisted ledger of one interview.
type InterviewSession struct {
	ID            string
	UserID        string
	Role          string
	Category      string
	Seniority     string
	FocusTopics   string
	QuestionIndex int
	MaxQuestions  int
	Status        SessionStatus
	Topics        []string
	HintQuestion  int    // question number the stored hint belongs to, 0 if none
	HintText      string // hint returned for HintQuestion
	Report        json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// Author identifies who wrote a turn.
type Author string

const (
	AuthorUser Author = "USER"
	AuthorAI   Author = "AI"
)

// TurnMetrics is the evaluation bundle attached to AI turns.
type TurnMetrics struct {
	Score         *int     `json:"score,omitempty"`
	Feedback      string   `json:"feedback,omitempty"`
	BetterAnswer  string   `json:"betterAnswer,omitempty"`
	TopicsCovered []string `json:"topicsCovered,omitempty"`
	HintUsed      bool     `json:"hintUsed,omitempty"`
}

// Turn is one append-only message in an interview transcript.
type Turn struct {
	ID            string
	SessionID     string
	Position      int
	Author        Author
	Content       string
	QuestionIndex int
	Metrics       *TurnMetrics
	CreatedAt     time.Time
}

// SessionAdvance records an evaluated answer: the AI turn is appended and
// the session index moves from FromIndex to FromIndex+1 atomically.
type SessionAdvance struct {
	SessionID string
	FromIndex int
	Topics    []string // full running topic set after this turn
	AITurn    Turn
}

// InterviewRepo persists interview sessions and their transcripts.
type InterviewRepo interface {
	// EnsureSession inserts s if no session with s.ID exists and returns the
	// stored row either way.
	EnsureSession(ctx context.Context, s InterviewSession) (*InterviewSession, error)

	// GetSession returns the session or apperr.ErrNotFound.
	GetSession(ctx context.Context, id string) (*InterviewSession, error)

	// StartSession moves a NOT_STARTED session to IN_PROGRESS. Sessions in
	// any other state are left alone.
	StartSession(ctx context.Context, id string) error

	// ConfigureSession overwrites role, category, seniority, focus topics
	// and max questions while the session is NOT_STARTED at index 0.
	ConfigureSession(ctx context.Context, s InterviewSession) (*InterviewSession, error)

	// AppendTurn appends t at the next position of its session.
	AppendTurn(ctx context.Context, t Turn) (*Turn, error)

	// RecentTurns returns the last n turns in chronological order.
	RecentTurns(ctx context.Context, sessionID string, n int) ([]Turn, error)

	// Turns returns the full transcript in chronological order.
	Turns(ctx context.Context, sessionID string) ([]Turn, error)

	// RecordEvaluation appends the AI turn and advances the session in one
	// transaction. Returns *apperr.ConflictError if the session index is no
	// longer adv.FromIndex.
	RecordEvaluation(ctx context.Context, adv SessionAdvance) error

	// SaveHint stores the hint given for question number q.
	SaveHint(ctx context.Context, sessionID string, q int, hint string) error

	// CompleteSession attaches the report and marks the session complete.
	// Returns false if the session was already complete.
	CompleteSession(ctx context.Context, id string, report json.RawMessage) (bool, error)
}

// Roadmap is a generated learning plan and its milestones.
type Roadmap struct {
	ID           string
	UserID       string
	Title        string
	Goal         string
	IsIntensive  bool
	TimeBoxValue int
	TimeBoxUnit  string
	IsCompleted  bool
	CreatedAt    time.Time
	CompletedAt  *time.Time
	Milestones   []Milestone
}

// Milestone is one ordered unit of a roadmap.
type Milestone struct {
	ID             string
	RoadmapID      string
	Position       int
	Title          string
	Description    string
	Duration       int
	DurationUnit   string
	StartOffset    int
	EstimatedHours int
	Difficulty     string
	Resources      []Resource
	Quizzes        []Quiz
}

// Resource is a learning link attached to a milestone.
type Resource struct {
	ID          string
	MilestoneID string
	Position    int
	Title       string
	URL         string
	Type        string
	Score       float64
}

// Quiz is one multiple-choice question attached to a milestone.
type Quiz struct {
	ID           string
	MilestoneID  string
	Position     int
	Question     string
	Options      []string
	CorrectIndex int
	Explanation  string
}

// RoadmapRepo persists generated roadmaps.
type RoadmapRepo interface {
	// SaveRoadmap writes the owning user (placeholder if missing), the
	// roadmap, milestones, resources and quizzes in one transaction.
	SaveRoadmap(ctx context.Context, r *Roadmap) error

	// GetRoadmap returns the roadmap with its full milestone tree.
	GetRoadmap(ctx context.Context, id string) (*Roadmap, error)

	// ListRoadmaps returns the user's roadmaps, newest first, with
	// milestones but without resources or quizzes.
	ListRoadmaps(ctx context.Context, userID string) ([]Roadmap, error)

	GetMilestone(ctx context.Context, id string) (*Milestone, error)
	GetQuiz(ctx context.Context, id string) (*Quiz, error)
	GetResource(ctx context.Context, id string) (*Resource, error)

	// MarkRoadmapCompleted flags the roadmap as complete. Returns false if
	// it already was.
	MarkRoadmapCompleted(ctx context.Context, id string) (bool, error)
}

// Milestone progress states.
const (
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// MilestoneProgress tracks a user's work on one milestone.
type MilestoneProgress struct {
	UserID        string
	MilestoneID   string
	Status        string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	TimeSpentMins int
}

// LearningStats is the per-user gamification ledger.
type LearningStats struct {
	UserID              string
	TotalXP             int
	Level               int
	CurrentStreak       int
	LongestStreak       int
	MilestonesCompleted int
	QuizzesPassed       int
	QuizzesTaken        int
	TotalTimeSpentMins  int
	BadgeCount          int
	LastActiveAt        *time.Time
	UpdatedAt           time.Time
}

// Achievement is a badge awarded once per user.
type Achievement struct {
	UserID      string
	Code        string
	Name        string
	Description string
	AwardedAt   time.Time
}

// DailyGoal tracks one user's targets for one calendar day.
type DailyGoal struct {
	UserID        string
	Day           string // YYYY-MM-DD
	TargetMins    int
	TargetQuizzes int
	MinsCompleted int
	QuizzesSolved int
	GoalMet       bool
}

// QuizAttempt records one answered quiz question.
type QuizAttempt struct {
	UserID        string
	QuizID        string
	SelectedIndex int
	Correct       bool
	CreatedAt     time.Time
}

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	UserID        string
	FullName      string
	TotalXP       int
	Level         int
	CurrentStreak int
}

// ProgressRepo persists gamification state.
type ProgressRepo interface {
	// EnsureStats creates an empty stats row for the user if missing and
	// returns the stored row.
	EnsureStats(ctx context.Context, userID string) (*LearningStats, error)
	SaveStats(ctx context.Context, s *LearningStats) error

	// GetMilestoneProgress returns apperr.ErrNotFound if the user never
	// started the milestone.
	GetMilestoneProgress(ctx context.Context, userID, milestoneID string) (*MilestoneProgress, error)
	UpsertMilestoneProgress(ctx context.Context, p *MilestoneProgress) error
	ListMilestoneProgress(ctx context.Context, userID string, milestoneIDs []string) ([]MilestoneProgress, error)

	// AwardAchievement inserts the badge. Returns false if the user already
	// holds it.
	AwardAchievement(ctx context.Context, a Achievement) (bool, error)
	Achievements(ctx context.Context, userID string) ([]Achievement, error)

	// GetDailyGoal returns apperr.ErrNotFound when no row exists.
	GetDailyGoal(ctx context.Context, userID, day string) (*DailyGoal, error)
	SaveDailyGoal(ctx context.Context, g *DailyGoal) error

	RecordQuizAttempt(ctx context.Context, a QuizAttempt) error

	// RecordResourceView returns false if the user had already viewed it.
	RecordResourceView(ctx context.Context, userID, resourceID string) (bool, error)

	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// Resume is an uploaded resume with its extracted text.
type Resume struct {
	ID        string
	UserID    string
	FileName  string
	MimeType  string
	ObjectKey string
	RawText   string
	Parsed    json.RawMessage
	CreatedAt time.Time
}

// Analysis is a stored resume-versus-job gap analysis.
type Analysis struct {
	ID             string
	UserID         string
	ResumeID       string
	TargetRole     string
	JobDescription string
	MatchScore     int
	Status         string
	Result         json.RawMessage
	CreatedAt      time.Time
}

// ResumeRepo persists resumes and analyses.
type ResumeRepo interface {
	SaveResume(ctx context.Context, r *Resume) error
	GetResume(ctx context.Context, id string) (*Resume, error)
	LatestResume(ctx context.Context, userID string) (*Resume, error)
	SaveAnalysis(ctx context.Context, a *Analysis) error
	ListAnalyses(ctx context.Context, userID string, limit int) ([]Analysis, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns nil, nil when the event does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
