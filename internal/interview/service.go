package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/keylock"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/store"
)

// TurnEvaluator scores one answer.
type TurnEvaluator interface {
	Evaluate(ctx context.Context, question, answer string, history []string, cfg EvalConfig) (*Evaluation, error)
}

// HintSource produces a hint for a question.
type HintSource interface {
	Hint(ctx context.Context, question string, cfg HintConfig) (string, error)
}

// ReportSynthesizer writes the final report.
type ReportSynthesizer interface {
	Summarize(ctx context.Context, transcript []string, scores []int, cfg ReportConfig) (*Report, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Evaluator TurnEvaluator
	Hints     HintSource
	Reports   ReportSynthesizer
	Repo      store.InterviewRepo
	Events    events.Publisher
}

// Service runs interview sessions: it records turns, advances the
// question index, and closes the session with a report.
type Service struct {
	deps  Deps
	cfg   Config
	locks *keylock.Locker
}

// NewService creates a Service from explicit collaborators.
func NewService(deps Deps, cfg Config) *Service {
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultConfig().HistoryWindow
	}
	return &Service{deps: deps, cfg: cfg, locks: keylock.New()}
}

// New wires the LLM-backed evaluator, hint provider and synthesizer.
func New(provider llm.Provider, repo store.InterviewRepo, pub events.Publisher, cfg Config) *Service {
	return NewService(Deps{
		Evaluator: NewEvaluator(provider, cfg),
		Hints:     NewHintProvider(provider, cfg),
		Reports:   NewSynthesizer(provider, cfg),
		Repo:      repo,
		Events:    pub,
	}, cfg)
}

type turnSettings struct {
	role         string
	category     Category
	seniority    Seniority
	maxQuestions int
}

func normalizeTurn(in *TurnInput) (turnSettings, error) {
	var ts turnSettings
	if strings.TrimSpace(in.UserAnswer) == "" {
		return ts, apperr.Invalid("userAnswer", "answer is required")
	}
	if in.QuestionIndex < 0 {
		return ts, apperr.Invalid("questionIndex", "must not be negative")
	}
	if in.MaxQuestions < 0 || in.MaxQuestions > maxQuestionsLimit {
		return ts, apperr.Invalid("maxQuestions", "must be between 1 and %d", maxQuestionsLimit)
	}

	var err error
	if ts.category, err = ParseCategory(in.Category); err != nil {
		return ts, err
	}
	if ts.seniority, err = ParseSeniority(in.Seniority); err != nil {
		return ts, err
	}
	ts.role = strings.TrimSpace(in.Role)
	if ts.role == "" {
		ts.role = DefaultRole
	}
	ts.maxQuestions = in.MaxQuestions
	if ts.maxQuestions == 0 {
		ts.maxQuestions = DefaultMaxQuestions
	}
	if strings.TrimSpace(in.CurrentQuestion) == "" {
		in.CurrentQuestion = "Introduction"
	}
	return ts, nil
}

func sameSettings(sess *store.InterviewSession, ts turnSettings, focus string) bool {
	return sess.Role == ts.role &&
		sess.Category == string(ts.category) &&
		sess.Seniority == string(ts.seniority) &&
		sess.FocusTopics == strings.TrimSpace(focus) &&
		sess.MaxQuestions == ts.maxQuestions
}

// SubmitTurn records one answer, evaluates it, and advances the session.
// When the interview ends, the final report is generated and attached.
func (s *Service) SubmitTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	ts, err := normalizeTurn(&in)
	if err != nil {
		return nil, err
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	ctx = llm.WithUser(ctx, in.UserID)

	unlock := s.locks.Lock(in.SessionID)
	defer unlock()

	sess, err := s.deps.Repo.EnsureSession(ctx, store.InterviewSession{
		ID:           in.SessionID,
		UserID:       in.UserID,
		Role:         ts.role,
		Category:     string(ts.category),
		Seniority:    string(ts.seniority),
		FocusTopics:  strings.TrimSpace(in.FocusTopics),
		MaxQuestions: ts.maxQuestions,
		Status:       store.SessionNotStarted,
	})
	if err != nil {
		return nil, err
	}
	if err := checkOwner(sess, in.UserID); err != nil {
		return nil, err
	}

	if sess.Status == store.SessionComplete {
		return s.completedResult(ctx, sess)
	}

	// A hint may have opened the session before any answer. The first
	// answer decides how the interview is configured.
	if sess.Status == store.SessionNotStarted && sess.QuestionIndex == 0 && !sameSettings(sess, ts, in.FocusTopics) {
		sess, err = s.deps.Repo.ConfigureSession(ctx, store.InterviewSession{
			ID:           sess.ID,
			Role:         ts.role,
			Category:     string(ts.category),
			Seniority:    string(ts.seniority),
			FocusTopics:  strings.TrimSpace(in.FocusTopics),
			MaxQuestions: ts.maxQuestions,
		})
		if err != nil {
			return nil, err
		}
	}

	next := sess.QuestionIndex + 1
	if in.QuestionIndex != 0 && in.QuestionIndex != next {
		return nil, &apperr.ConflictError{
			Resource: "interview session",
			Message:  fmt.Sprintf("expected answer to question %d, got %d", next, in.QuestionIndex),
		}
	}

	// Every question was already answered but the report is missing.
	if sess.QuestionIndex >= sess.MaxQuestions {
		return s.retryFinalize(ctx, sess)
	}

	if sess.Status == store.SessionNotStarted {
		if err := s.deps.Repo.StartSession(ctx, sess.ID); err != nil {
			return nil, err
		}
	}

	hintUsed := in.HintUsed || (sess.HintQuestion == next && sess.HintText != "")

	if _, err := s.deps.Repo.AppendTurn(ctx, store.Turn{
		SessionID:     sess.ID,
		Author:        store.AuthorUser,
		Content:       in.UserAnswer,
		QuestionIndex: next,
	}); err != nil {
		return nil, err
	}

	recent, err := s.deps.Repo.RecentTurns(ctx, sess.ID, s.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	ev, err := s.deps.Evaluator.Evaluate(ctx, in.CurrentQuestion, in.UserAnswer, transcriptLines(recent), EvalConfig{
		Role:          sess.Role,
		Category:      Category(sess.Category),
		Seniority:     Seniority(sess.Seniority),
		FocusTopics:   sess.FocusTopics,
		QuestionIndex: next,
		MaxQuestions:  sess.MaxQuestions,
		HintUsed:      hintUsed,
	})
	if err != nil {
		return nil, err
	}

	topics := UnionTopics(sess.Topics, ev.TopicsCovered)
	score := ev.Score
	err = s.deps.Repo.RecordEvaluation(ctx, store.SessionAdvance{
		SessionID: sess.ID,
		FromIndex: sess.QuestionIndex,
		Topics:    topics,
		AITurn: store.Turn{
			Author:        store.AuthorAI,
			Content:       ev.NextQuestion,
			QuestionIndex: next + 1,
			Metrics: &store.TurnMetrics{
				Score:         &score,
				Feedback:      ev.Feedback,
				BetterAnswer:  ev.ModelAnswer,
				TopicsCovered: ev.TopicsCovered,
				HintUsed:      hintUsed,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	sess.QuestionIndex = next
	sess.Topics = topics

	res := &TurnResult{
		SessionID:       sess.ID,
		Feedback:        ev.Feedback,
		Score:           ev.Score,
		BetterAnswer:    ev.ModelAnswer,
		NextQuestion:    ev.NextQuestion,
		IsInterviewOver: ev.IsOver,
		TopicsCovered:   ev.TopicsCovered,
		SessionTopics:   topics,
		QuestionIndex:   next,
	}
	if !ev.IsOver {
		return res, nil
	}

	report, err := s.finalize(ctx, sess)
	if err != nil {
		return nil, err
	}
	res.FinalReport = report
	return res, nil
}

// retryFinalize handles a session whose last answer was recorded but whose
// report could not be generated.
func (s *Service) retryFinalize(ctx context.Context, sess *store.InterviewSession) (*TurnResult, error) {
	report, err := s.finalize(ctx, sess)
	if err != nil {
		return nil, err
	}
	res := resultFromSession(sess)
	res.FinalReport = report
	if turns, err := s.deps.Repo.RecentTurns(ctx, sess.ID, 1); err == nil && len(turns) == 1 {
		applyTurnMetrics(res, turns[0])
	}
	return res, nil
}

// finalize builds the transcript and score series, synthesizes the report
// once, and closes the session.
func (s *Service) finalize(ctx context.Context, sess *store.InterviewSession) (*Report, error) {
	turns, err := s.deps.Repo.Turns(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	scores := ScoreSeries(turns)
	report, err := s.deps.Reports.Summarize(ctx, transcriptLines(turns), scores, ReportConfig{
		Role:      sess.Role,
		Category:  Category(sess.Category),
		Seniority: Seniority(sess.Seniority),
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	completed, err := s.deps.Repo.CompleteSession(ctx, sess.ID, raw)
	if err != nil {
		return nil, err
	}
	if completed {
		logx.WithContext(ctx).Infow("interview completed",
			logx.Field("sessionId", sess.ID),
			logx.Field("averageScore", report.AverageScore),
			logx.Field("hiringSuggestion", string(report.HiringSuggestion)))
		events.Emit(ctx, s.deps.Events, events.InterviewCompleted, map[string]any{
			"sessionId":        sess.ID,
			"userId":           sess.UserID,
			"role":             sess.Role,
			"averageScore":     report.AverageScore,
			"overallScore":     report.OverallScore,
			"hiringSuggestion": report.HiringSuggestion,
			"topics":           sess.Topics,
		})
	}
	return report, nil
}

// ScoreSeries returns the scores of AI turns that carry a non-zero score.
// If there are none, it is the singleton of the last scored turn's raw
// score, or [0] when no turn was ever scored.
func ScoreSeries(turns []store.Turn) []int {
	var (
		scores []int
		last   = 0
	)
	for _, t := range turns {
		if t.Author != store.AuthorAI || t.Metrics == nil || t.Metrics.Score == nil {
			continue
		}
		last = *t.Metrics.Score
		if last > 0 {
			scores = append(scores, last)
		}
	}
	if len(scores) == 0 {
		return []int{last}
	}
	return scores
}

func transcriptLines(turns []store.Turn) []string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("%s: %s", t.Author, t.Content)
	}
	return lines
}

// completedResult replays a finished session without touching it.
func (s *Service) completedResult(ctx context.Context, sess *store.InterviewSession) (*TurnResult, error) {
	res := resultFromSession(sess)
	if turns, err := s.deps.Repo.RecentTurns(ctx, sess.ID, 1); err == nil && len(turns) == 1 {
		applyTurnMetrics(res, turns[0])
	}
	rep, err := decodeReport(sess.Report)
	if err != nil {
		return nil, err
	}
	res.FinalReport = rep
	return res, nil
}

func resultFromSession(sess *store.InterviewSession) *TurnResult {
	return &TurnResult{
		SessionID:       sess.ID,
		IsInterviewOver: true,
		SessionTopics:   sess.Topics,
		QuestionIndex:   sess.QuestionIndex,
	}
}

func applyTurnMetrics(res *TurnResult, t store.Turn) {
	if t.Author != store.AuthorAI || t.Metrics == nil {
		return
	}
	res.NextQuestion = t.Content
	res.Feedback = t.Metrics.Feedback
	res.BetterAnswer = t.Metrics.BetterAnswer
	res.TopicsCovered = t.Metrics.TopicsCovered
	if t.Metrics.Score != nil {
		res.Score = *t.Metrics.Score
	}
}

func decodeReport(raw json.RawMessage) (*Report, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rep Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &rep, nil
}

// RequestHint returns a hint for the current question. Within a session,
// each question gets at most one delegate call; repeats return the stored
// hint. Without a session id the call is stateless.
func (s *Service) RequestHint(ctx context.Context, in HintInput) (*HintResult, error) {
	if strings.TrimSpace(in.CurrentQuestion) == "" {
		return nil, apperr.Invalid("currentQuestion", "question is required")
	}
	ctx = llm.WithUser(ctx, in.UserID)
	category, err := ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	seniority, err := ParseSeniority(in.Seniority)
	if err != nil {
		return nil, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = DefaultRole
	}

	if in.MaxQuestions < 0 || in.MaxQuestions > maxQuestionsLimit {
		return nil, apperr.Invalid("maxQuestions", "must be between 1 and %d", maxQuestionsLimit)
	}
	maxQuestions := in.MaxQuestions
	if maxQuestions == 0 {
		maxQuestions = DefaultMaxQuestions
	}

	if in.SessionID == "" {
		hint, err := s.deps.Hints.Hint(ctx, in.CurrentQuestion, HintConfig{Role: role, Category: category, Seniority: seniority})
		if err != nil {
			return nil, err
		}
		return &HintResult{Hint: hint, QuestionIndex: in.QuestionIndex}, nil
	}

	unlock := s.locks.Lock(in.SessionID)
	defer unlock()

	sess, err := s.deps.Repo.EnsureSession(ctx, store.InterviewSession{
		ID:           in.SessionID,
		UserID:       in.UserID,
		Role:         role,
		Category:     string(category),
		Seniority:    string(seniority),
		FocusTopics:  strings.TrimSpace(in.FocusTopics),
		MaxQuestions: maxQuestions,
		Status:       store.SessionNotStarted,
	})
	if err != nil {
		return nil, err
	}
	if err := checkOwner(sess, in.UserID); err != nil {
		return nil, err
	}
	if sess.Status == store.SessionComplete {
		return nil, &apperr.ConflictError{Resource: "interview session", Message: "interview is already complete"}
	}

	q := sess.QuestionIndex + 1
	if in.QuestionIndex != 0 && in.QuestionIndex != q {
		return nil, &apperr.ConflictError{
			Resource: "interview session",
			Message:  fmt.Sprintf("hint requested for question %d, session is at question %d", in.QuestionIndex, q),
		}
	}
	if sess.HintQuestion == q && sess.HintText != "" {
		return &HintResult{Hint: sess.HintText, QuestionIndex: q, Cached: true}, nil
	}

	hint, err := s.deps.Hints.Hint(ctx, in.CurrentQuestion, HintConfig{
		Role:      sess.Role,
		Category:  Category(sess.Category),
		Seniority: Seniority(sess.Seniority),
	})
	if err != nil {
		return nil, err
	}
	if err := s.deps.Repo.SaveHint(ctx, sess.ID, q, hint); err != nil {
		return nil, err
	}
	return &HintResult{Hint: hint, QuestionIndex: q}, nil
}

// checkOwner reports a session owned by another user as not found.
// Sessions without an owner are shared.
func checkOwner(sess *store.InterviewSession, userID string) error {
	if userID != "" && sess.UserID != "" && sess.UserID != userID {
		return fmt.Errorf("interview session %s: %w", sess.ID, apperr.ErrNotFound)
	}
	return nil
}

// GetSession returns the session with its ordered transcript.
func (s *Service) GetSession(ctx context.Context, id string) (*SessionView, error) {
	if id == "" {
		return nil, apperr.Invalid("sessionId", "session id is required")
	}
	sess, err := s.deps.Repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("interview session %s: %w", id, err)
		}
		return nil, err
	}
	turns, err := s.deps.Repo.Turns(ctx, id)
	if err != nil {
		return nil, err
	}
	rep, err := decodeReport(sess.Report)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: sess, Turns: turns, Report: rep}, nil
}
