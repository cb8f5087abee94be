package server

import (
	"encoding/json"
	"time"

	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/progress"
	"github.com/abhisek/careerpilot/internal/store"
)

type resourceView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// quizView leaves out the answer; it is revealed on submit.
type quizView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type milestoneView struct {
	ID             string         `json:"id"`
	Position       int            `json:"position"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Duration       int            `json:"duration"`
	DurationUnit   string         `json:"durationUnit"`
	StartOffset    int            `json:"startOffset"`
	EstimatedHours int            `json:"estimatedHours"`
	Difficulty     string         `json:"difficulty"`
	Resources      []resourceView `json:"resources"`
	Quizzes        []quizView     `json:"quizzes"`
}

type roadmapView struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Title        string          `json:"title"`
	Goal         string          `json:"goal"`
	IsIntensive  bool            `json:"isIntensive"`
	TimeBoxValue int             `json:"timeBoxValue,omitempty"`
	TimeBoxUnit  string          `json:"timeBoxUnit,omitempty"`
	IsCompleted  bool            `json:"isCompleted"`
	CreatedAt    time.Time       `json:"createdAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
	Milestones   []milestoneView `json:"milestones"`
}

func newRoadmapView(rm *store.Roadmap) roadmapView {
	v := roadmapView{
		ID:           rm.ID,
		UserID:       rm.UserID,
		Title:        rm.Title,
		Goal:         rm.Goal,
		IsIntensive:  rm.IsIntensive,
		TimeBoxValue: rm.TimeBoxValue,
		TimeBoxUnit:  rm.TimeBoxUnit,
		IsCompleted:  rm.IsCompleted,
		CreatedAt:    rm.CreatedAt,
		CompletedAt:  rm.CompletedAt,
		Milestones:   make([]milestoneView, 0, len(rm.Milestones)),
	}
	for _, m := range rm.Milestones {
		mv := milestoneView{
			ID:             m.ID,
			Position:       m.Position,
			Title:          m.Title,
			Description:    m.Description,
			Duration:       m.Duration,
			DurationUnit:   m.DurationUnit,
			StartOffset:    m.StartOffset,
			EstimatedHours: m.EstimatedHours,
			Difficulty:     m.Difficulty,
			Resources:      make([]resourceView, 0, len(m.Resources)),
			Quizzes:        make([]quizView, 0, len(m.Quizzes)),
		}
		for _, r := range m.Resources {
			mv.Resources = append(mv.Resources, resourceView{ID: r.ID, Title: r.Title, URL: r.URL, Type: r.Type})
		}
		for _, q := range m.Quizzes {
			mv.Quizzes = append(mv.Quizzes, quizView{ID: q.ID, Question: q.Question, Options: q.Options})
		}
		v.Milestones = append(v.Milestones, mv)
	}
	return v
}

type roadmapSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	IsIntensive bool      `json:"isIntensive"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
	Completed   int       `json:"completedMilestones"`
	Total       int       `json:"totalMilestones"`
	Percent     int       `json:"completionPercentage"`
}

func newRoadmapSummaries(list []progress.RoadmapProgress) []roadmapSummary {
	out := make([]roadmapSummary, 0, len(list))
	for _, rp := range list {
		out = append(out, roadmapSummary{
			ID:          rp.ID,
			Title:       rp.Title,
			IsIntensive: rp.Roadmap.IsIntensive,
			IsCompleted: rp.Roadmap.IsCompleted,
			CreatedAt:   rp.Roadmap.CreatedAt,
			Completed:   rp.Completed,
			Total:       rp.Total,
			Percent:     rp.Percent,
		})
	}
	return out
}

type turnView struct {
	Position      int                `json:"position"`
	Author        store.Author       `json:"author"`
	Content       string             `json:"content"`
	QuestionIndex int                `json:"questionIndex"`
	Metrics       *store.TurnMetrics `json:"metrics,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

type sessionView struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId,omitempty"`
	Role          string              `json:"role"`
	Category      string              `json:"category"`
	Seniority     string              `json:"seniority"`
	FocusTopics   string              `json:"focusTopics,omitempty"`
	QuestionIndex int                 `json:"questionIndex"`
	MaxQuestions  int                 `json:"maxQuestions"`
	Status        store.SessionStatus `json:"status"`
	Topics        []string            `json:"topics"`
	CreatedAt     time.Time           `json:"createdAt"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty"`
	Turns         []turnView          `json:"turns"`
	Report        *interview.Report   `json:"report,omitempty"`
}

func newSessionView(sv *interview.SessionView) sessionView {
	s := sv.Session
	v := sessionView{
		ID:            s.ID,
		UserID:        s.UserID,
		Role:          s.Role,
		Category:      s.Category,
		Seniority:     s.Seniority,
		FocusTopics:   s.FocusTopics,
		QuestionIndex: s.QuestionIndex,
		MaxQuestions:  s.MaxQuestions,
		Status:        s.Status,
		Topics:        s.Topics,
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
		Turns:         make([]turnView, 0, len(sv.Turns)),
		Report:        sv.Report,
	}
	for _, t := range sv.Turns {
		v.Turns = append(v.Turns, turnView{
			Position:      t.Position,
			Author:        t.Author,
			Content:       t.Content,
			QuestionIndex: t.QuestionIndex,
			Metrics:       t.Metrics,
			CreatedAt:     t.CreatedAt,
		})
	}
	return v
}

type leaderboardRow struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	FullName      string `json:"fullName,omitempty"`
	TotalXP       int    `json:"totalXp"`
	Level         int    `json:"level"`
	CurrentStreak int    `json:"currentStreak"`
}

func newLeaderboard(entries []store.LeaderboardEntry) []leaderboardRow {
	out := make([]leaderboardRow, 0, len(entries))
	for i, e := range entries {
		out = append(out, leaderboardRow{
			Rank:          i + 1,
			UserID:        e.UserID,
			FullName:      e.FullName,
			TotalXP:       e.TotalXP,
			Level:         e.Level,
			CurrentStreak: e.CurrentStreak,
		})
	}
	return out
}

type analysisView struct {
	ID         string          `json:"id"`
	ResumeID   string          `json:"resumeId,omitempty"`
	TargetRole string          `json:"jobRole"`
	MatchScore int             `json:"matchScore"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func newAnalysisViews(list []store.Analysis) []analysisView {
	out := make([]analysisView, 0, len(list))
	for _, a := range list {
		out = append(out, analysisView{
			ID:         a.ID,
			ResumeID:   a.ResumeID,
			TargetRole: a.TargetRole,
			MatchScore: a.MatchScore,
			Status:     a.Status,
			Result:     a.Result,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
