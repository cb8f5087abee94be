package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/keylock"
	"github.com/abhisek/careerpilot/internal/store"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Progress store.ProgressRepo
	Roadmaps store.RoadmapRepo
	Events   events.Publisher

	// Tx runs one update in a transaction. Without it the update writes
	// straight to Progress and Roadmaps.
	Tx Transactor

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Transactor runs fn with repositories bound to a single transaction.
type Transactor func(ctx context.Context, fn func(progress store.ProgressRepo, roadmaps store.RoadmapRepo) error) error

// StoreTx returns a Transactor backed by st.
func StoreTx(st *store.Store) Transactor {
	return func(ctx context.Context, fn func(store.ProgressRepo, store.RoadmapRepo) error) error {
		return st.WithTx(ctx, func(tx *store.Store) error {
			return fn(tx.ProgressRepo(), tx.RoadmapRepo())
		})
	}
}

// Service awards XP, tracks streaks and daily goals, and unlocks
// achievements. Writes for one user are serialized.
type Service struct {
	deps  Deps
	locks *keylock.Locker
}

// NewService creates a progress Service.
func NewService(deps Deps) *Service {
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{deps: deps, locks: keylock.New()}
}

// ledger accumulates the changes of one write operation on a user's stats.
// Its repositories belong to the operation's transaction.
type ledger struct {
	progress store.ProgressRepo
	roadmaps store.RoadmapRepo
	stats    *store.LearningStats
	now      time.Time
	gained   int
	unlocked []Unlocked
}

func (l *ledger) addXP(n int) {
	l.stats.TotalXP += n
	l.stats.Level = Level(l.stats.TotalXP)
	l.gained += n
}

func (l *ledger) earn(a Action) {
	l.addXP(XPFor(a))
}

// touchStreak records activity now and rewards a one-day extension.
func (l *ledger) touchStreak(ctx context.Context) error {
	next, extended := NextStreak(l.stats.CurrentStreak, l.stats.LastActiveAt, l.now)
	l.stats.CurrentStreak = next
	if next > l.stats.LongestStreak {
		l.stats.LongestStreak = next
	}
	now := l.now
	l.stats.LastActiveAt = &now
	if extended {
		l.earn(ActionStreakDay)
	}
	if next >= WeekStreak {
		return l.award(ctx, BadgeWeekStreak)
	}
	return nil
}

// award unlocks b if the user does not hold it yet.
func (l *ledger) award(ctx context.Context, b Badge) error {
	added, err := l.progress.AwardAchievement(ctx, store.Achievement{
		UserID:      l.stats.UserID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		AwardedAt:   l.now,
	})
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	l.stats.BadgeCount++
	l.addXP(AchievementXP)
	l.unlocked = append(l.unlocked, Unlocked{Badge: b, AwardedAt: l.now})
	return nil
}

func (l *ledger) outcome() Outcome {
	return Outcome{
		XPGained:     l.gained,
		TotalXP:      l.stats.TotalXP,
		Level:        l.stats.Level,
		Streak:       l.stats.CurrentStreak,
		Achievements: l.unlocked,
	}
}

// update runs fn against the user's stats under the user's lock and saves
// the result in the same transaction. Achievement events are published
// after the commit.
func (s *Service) update(ctx context.Context, userID string, fn func(*ledger) error) (*ledger, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var l *ledger
	run := func(progress store.ProgressRepo, roadmaps store.RoadmapRepo) error {
		st, err := progress.EnsureStats(ctx, userID)
		if err != nil {
			return err
		}
		l = &ledger{progress: progress, roadmaps: roadmaps, stats: st, now: s.deps.Clock()}
		if err := fn(l); err != nil {
			return err
		}
		return progress.SaveStats(ctx, l.stats)
	}

	var err error
	if s.deps.Tx != nil {
		err = s.deps.Tx(ctx, run)
	} else {
		err = run(s.deps.Progress, s.deps.Roadmaps)
	}
	if err != nil {
		return nil, err
	}

	for _, u := range l.unlocked {
		logx.WithContext(ctx).Infow("achievement unlocked",
			logx.Field("userId", userID),
			logx.Field("code", u.Code))
		events.Emit(ctx, s.deps.Events, events.AchievementUnlocked, map[string]any{
			"userId": userID,
			"code":   u.Code,
			"name":   u.Name,
			"icon":   u.Icon,
		})
	}
	return l, nil
}

func requireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.Invalid(field, "%s is required", field)
	}
	return nil
}

func notFound(what, id string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
	return err
}

// StartMilestone marks a milestone in progress. Starting a milestone that
// is already in progress or completed changes nothing and earns no XP.
func (s *Service) StartMilestone(ctx context.Context, userID, milestoneID string) (*MilestoneStart, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("milestoneId", milestoneID); err != nil {
		return nil, err
	}
	if _, err := s.deps.Roadmaps.GetMilestone(ctx, milestoneID); err != nil {
		return nil, notFound("milestone", milestoneID, err)
	}

	var p *store.MilestoneProgress
	l, err := s.update(ctx, userID, func(l *ledger) error {
		if err := l.touchStreak(ctx); err != nil {
			return err
		}
		existing, err := l.progress.GetMilestoneProgress(ctx, userID, milestoneID)
		switch {
		case err == nil:
			p = existing
			return nil
		case !errors.Is(err, apperr.ErrNotFound):
			return err
		}

		started := l.now
		p = &store.MilestoneProgress{
			UserID:      userID,
			MilestoneID: milestoneID,
			Status:      store.ProgressInProgress,
			StartedAt:   &started,
		}
		if err := l.progress.UpsertMilestoneProgress(ctx, p); err != nil {
			return err
		}
		l.earn(ActionMilestoneStart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &MilestoneStart{Outcome: l.outcome(), MilestoneID: milestoneID, Status: p.Status}
	if p.StartedAt != nil {
		res.StartedAt = *p.StartedAt
	}
	return res, nil
}

// CompleteMilestone finishes a started milestone, records the minutes
// spent on it, and completes the roadmap when it was the last one.
func (s *Service) CompleteMilestone(ctx context.Context, userID, milestoneID string) (*MilestoneCompletion, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("milestoneId", milestoneID); err != nil {
		return nil, err
	}
	m, err := s.deps.Roadmaps.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, notFound("milestone", milestoneID, err)
	}

	res := &MilestoneCompletion{MilestoneID: milestoneID, RoadmapID: m.RoadmapID}
	l, err := s.update(ctx, userID, func(l *ledger) error {
		p, err := l.progress.GetMilestoneProgress(ctx, userID, milestoneID)
		if err != nil {
			return notFound("progress for milestone", milestoneID, err)
		}
		if p.Status == store.ProgressCompleted {
			res.TimeSpentMins = p.TimeSpentMins
			return nil
		}

		started := l.now
		if p.StartedAt != nil {
			started = *p.StartedAt
		}
		mins := int(l.now.Sub(started) / time.Minute)
		if mins < 0 {
			mins = 0
		}
		done := l.now
		p.Status = store.ProgressCompleted
		p.CompletedAt = &done
		p.TimeSpentMins = mins
		if err := l.progress.UpsertMilestoneProgress(ctx, p); err != nil {
			return err
		}
		res.TimeSpentMins = mins

		l.stats.MilestonesCompleted++
		l.stats.TotalTimeSpentMins += mins
		l.earn(ActionMilestoneComplete)

		if err := l.award(ctx, BadgeFirstMilestone); err != nil {
			return err
		}
		if l.stats.TotalTimeSpentMins >= DedicatedTotalMins {
			if err := l.award(ctx, BadgeDedicated); err != nil {
				return err
			}
		}
		if mins < SpeedLearnerMins {
			if err := l.award(ctx, BadgeSpeedLearner); err != nil {
				return err
			}
		}

		completed, err := completeRoadmap(ctx, l, userID, m.RoadmapID)
		if err != nil {
			return err
		}
		if completed {
			res.RoadmapCompleted = true
			return l.award(ctx, BadgeRoadmapComplete)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Outcome = l.outcome()
	return res, nil
}

// completeRoadmap marks the roadmap complete once every milestone of it
// is completed by the user.
func completeRoadmap(ctx context.Context, l *ledger, userID, roadmapID string) (bool, error) {
	rm, err := l.roadmaps.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return false, err
	}
	if rm.IsCompleted {
		return false, nil
	}
	done, err := completedCount(ctx, l.progress, userID, rm)
	if err != nil {
		return false, err
	}
	if len(rm.Milestones) == 0 || done < len(rm.Milestones) {
		return false, nil
	}
	return l.roadmaps.MarkRoadmapCompleted(ctx, roadmapID)
}

func completedCount(ctx context.Context, progress store.ProgressRepo, userID string, rm *store.Roadmap) (int, error) {
	ids := make([]string, len(rm.Milestones))
	for i, m := range rm.Milestones {
		ids[i] = m.ID
	}
	ps, err := progress.ListMilestoneProgress(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range ps {
		if p.Status == store.ProgressCompleted {
			n++
		}
	}
	return n, nil
}

// SubmitQuiz grades an answer, records the attempt, and counts it toward
// today's quiz target.
func (s *Service) SubmitQuiz(ctx context.Context, userID, quizID string, selected int) (*QuizResult, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("quizId", quizID); err != nil {
		return nil, err
	}
	q, err := s.deps.Roadmaps.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, notFound("quiz", quizID, err)
	}
	if selected < 0 || selected >= len(q.Options) {
		return nil, apperr.Invalid("selectedIndex", "must be between 0 and %d", len(q.Options)-1)
	}

	correct := selected == q.CorrectIndex
	l, err := s.update(ctx, userID, func(l *ledger) error {
		if err := l.progress.RecordQuizAttempt(ctx, store.QuizAttempt{
			UserID:        userID,
			QuizID:        quizID,
			SelectedIndex: selected,
			Correct:       correct,
			CreatedAt:     l.now,
		}); err != nil {
			return err
		}

		l.stats.QuizzesTaken++
		if correct {
			l.stats.QuizzesPassed++
			l.earn(ActionQuizPass)
			if l.stats.QuizzesPassed >= QuizMasterPasses {
				if err := l.award(ctx, BadgeQuizMaster); err != nil {
					return err
				}
			}
		} else {
			l.earn(ActionQuizFail)
		}

		_, err := addDaily(ctx, l, 0, 1)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &QuizResult{
		Outcome:      l.outcome(),
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
	}, nil
}

// MarkResourceViewed earns XP the first time a user opens a resource.
func (s *Service) MarkResourceViewed(ctx context.Context, userID, resourceID string) (*ResourceView, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("resourceId", resourceID); err != nil {
		return nil, err
	}
	if _, err := s.deps.Roadmaps.GetResource(ctx, resourceID); err != nil {
		return nil, notFound("resource", resourceID, err)
	}

	var first bool
	l, err := s.update(ctx, userID, func(l *ledger) error {
		var err error
		if first, err = l.progress.RecordResourceView(ctx, userID, resourceID); err != nil {
			return err
		}
		if first {
			l.earn(ActionResourceView)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ResourceView{Outcome: l.outcome(), FirstView: first}, nil
}

// UpdateDailyProgress adds study minutes and solved quizzes to today's
// goal and extends the streak.
func (s *Service) UpdateDailyProgress(ctx context.Context, userID string, minutes, quizzes int) (*DailyUpdate, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if minutes < 0 {
		return nil, apperr.Invalid("minsSpent", "must not be negative")
	}
	if quizzes < 0 {
		return nil, apperr.Invalid("quizzesSolved", "must not be negative")
	}

	var goal *store.DailyGoal
	l, err := s.update(ctx, userID, func(l *ledger) error {
		if err := l.touchStreak(ctx); err != nil {
			return err
		}
		var err error
		goal, err = addDaily(ctx, l, minutes, quizzes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DailyUpdate{Outcome: l.outcome(), Goal: goalView(goal)}, nil
}

// addDaily upserts today's goal and pays the daily bonus the first time
// both targets are reached.
func addDaily(ctx context.Context, l *ledger, minutes, quizzes int) (*store.DailyGoal, error) {
	g, err := today(ctx, l.progress, l.stats.UserID, l.now)
	if err != nil {
		return nil, err
	}
	g.MinsCompleted += minutes
	g.QuizzesSolved += quizzes
	if !g.GoalMet && g.MinsCompleted >= g.TargetMins && g.QuizzesSolved >= g.TargetQuizzes {
		g.GoalMet = true
		l.earn(ActionDailyGoal)
	}
	if err := l.progress.SaveDailyGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// today returns the stored goal for now's day, or a fresh one with the
// default targets.
func today(ctx context.Context, progress store.ProgressRepo, userID string, now time.Time) (*store.DailyGoal, error) {
	day := DayKey(now)
	g, err := progress.GetDailyGoal(ctx, userID, day)
	if errors.Is(err, apperr.ErrNotFound) {
		return &store.DailyGoal{
			UserID:        userID,
			Day:           day,
			TargetMins:    DefaultTargetMins,
			TargetQuizzes: DefaultTargetQuizzes,
		}, nil
	}
	return g, err
}

// GoalProgress is min(100, round(mins/target*50 + quizzes/target*50)).
func GoalProgress(g store.DailyGoal) int {
	var p float64
	if g.TargetMins > 0 {
		p += float64(g.MinsCompleted) / float64(g.TargetMins) * 50
	}
	if g.TargetQuizzes > 0 {
		p += float64(g.QuizzesSolved) / float64(g.TargetQuizzes) * 50
	}
	return min(100, int(math.Round(p)))
}

func goalView(g *store.DailyGoal) DailyGoalView {
	return DailyGoalView{
		Day:           g.Day,
		TargetMins:    g.TargetMins,
		TargetQuizzes: g.TargetQuizzes,
		MinsCompleted: g.MinsCompleted,
		QuizzesSolved: g.QuizzesSolved,
		IsCompleted:   g.GoalMet,
		Progress:      GoalProgress(*g),
	}
}

// DailyGoal returns today's goal without changing it.
func (s *Service) DailyGoal(ctx context.Context, userID string) (*DailyGoalView, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	g, err := today(ctx, s.deps.Progress, userID, s.deps.Clock())
	if err != nil {
		return nil, err
	}
	v := goalView(g)
	return &v, nil
}

// Stats returns the learner's XP, level, streaks, counters, achievements
// and today's goal. Unknown users get an empty ledger.
func (s *Service) Stats(ctx context.Context, userID string) (*StatsView, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	st, err := s.deps.Progress.EnsureStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.deps.Progress.Achievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, err := s.DailyGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	v := &StatsView{
		UserID:              st.UserID,
		TotalXP:             st.TotalXP,
		Level:               Level(st.TotalXP),
		XPToNextLevel:       XPToNextLevel(st.TotalXP),
		CurrentStreak:       st.CurrentStreak,
		LongestStreak:       st.LongestStreak,
		MilestonesCompleted: st.MilestonesCompleted,
		QuizzesPassed:       st.QuizzesPassed,
		QuizzesTaken:        st.QuizzesTaken,
		TotalTimeSpentMins:  st.TotalTimeSpentMins,
		BadgeCount:          st.BadgeCount,
		Achievements:        make([]Unlocked, 0, len(achievements)),
		DailyGoal:           *goal,
	}
	for _, a := range achievements {
		b, ok := BadgeFor(a.Code)
		if !ok {
			b = Badge{Code: a.Code, Name: a.Name, Description: a.Description}
		}
		v.Achievements = append(v.Achievements, Unlocked{Badge: b, AwardedAt: a.AwardedAt})
	}
	return v, nil
}

// Leaderboard returns the top users by XP.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)
	return s.deps.Progress.Leaderboard(ctx, limit)
}

// RoadmapsWithProgress lists the user's roadmaps with the share of
// milestones completed.
func (s *Service) RoadmapsWithProgress(ctx context.Context, userID string) ([]RoadmapProgress, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	rms, err := s.deps.Roadmaps.ListRoadmaps(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RoadmapProgress, 0, len(rms))
	for i := range rms {
		done, err := completedCount(ctx, s.deps.Progress, userID, &rms[i])
		if err != nil {
			return nil, err
		}
		total := len(rms[i].Milestones)
		rp := RoadmapProgress{
			Roadmap:   rms[i],
			ID:        rms[i].ID,
			Title:     rms[i].Title,
			Completed: done,
			Total:     total,
		}
		if total > 0 {
			rp.Percent = int(math.Round(float64(done) / float64(total) * 100))
		}
		out = append(out, rp)
	}
	return out, nil
}
