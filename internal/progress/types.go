package progress

import (
	"time"

	"github.com/abhisek/careerpilot/internal/store"
)

// Default daily targets.
const (
	DefaultTargetMins    = 30
	DefaultTargetQuizzes = 3
)

// Leaderboard size bounds.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// Unlocked is an achievement awarded by one operation.
type Unlocked struct {
	Badge
	AwardedAt time.Time `json:"awardedAt"`
}

// Outcome is what every write operation reports back.
type Outcome struct {
	XPGained     int        `json:"xpGained"`
	TotalXP      int        `json:"totalXp"`
	Level        int        `json:"level"`
	Streak       int        `json:"currentStreak"`
	Achievements []Unlocked `json:"achievements,omitempty"`
}

// MilestoneStart is the result of StartMilestone.
type MilestoneStart struct {
	Outcome
	MilestoneID string    `json:"milestoneId"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"startedAt"`
}

// MilestoneCompletion is the result of CompleteMilestone.
type MilestoneCompletion struct {
	Outcome
	MilestoneID      string `json:"milestoneId"`
	TimeSpentMins    int    `json:"timeSpentMins"`
	RoadmapID        string `json:"roadmapId"`
	RoadmapCompleted bool   `json:"roadmapCompleted"`
}

// QuizResult is the result of SubmitQuiz.
type QuizResult struct {
	Outcome
	Correct      bool   `json:"isCorrect"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
}

// ResourceView is the result of MarkResourceViewed.
type ResourceView struct {
	Outcome
	FirstView bool `json:"firstView"`
}

// DailyGoalView is a day's targets and how far the learner got.
type DailyGoalView struct {
	Day           string `json:"date"`
	TargetMins    int    `json:"targetMins"`
	TargetQuizzes int    `json:"targetQuizzes"`
	MinsCompleted int    `json:"minsCompleted"`
	QuizzesSolved int    `json:"quizzesSolved"`
	IsCompleted   bool   `json:"isCompleted"`
	Progress      int    `json:"progress"` // 0-100
}

// DailyUpdate is the result of UpdateDailyProgress.
type DailyUpdate struct {
	Outcome
	Goal DailyGoalView `json:"goal"`
}

// StatsView is a learner's full gamification state.
type StatsView struct {
	UserID              string        `json:"userId"`
	TotalXP             int           `json:"totalXp"`
	Level               int           `json:"level"`
	XPToNextLevel       int           `json:"xpToNextLevel"`
	CurrentStreak       int           `json:"currentStreak"`
	LongestStreak       int           `json:"longestStreak"`
	MilestonesCompleted int           `json:"milestonesCompleted"`
	QuizzesPassed       int           `json:"quizzesPassed"`
	QuizzesTaken        int           `json:"quizzesTaken"`
	TotalTimeSpentMins  int           `json:"totalTimeSpentMins"`
	BadgeCount          int           `json:"badgeCount"`
	Achievements        []Unlocked    `json:"achievements"`
	DailyGoal           DailyGoalView `json:"dailyGoal"`
}

// RoadmapProgress is a roadmap with its completion share for one user.
type RoadmapProgress struct {
	Roadmap   store.Roadmap `json:"-"`
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Completed int           `json:"completedMilestones"`
	Total     int           `json:"totalMilestones"`
	Percent   int           `json:"completionPercentage"`
}
