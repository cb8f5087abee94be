package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/careerpilot/internal/apperr"
)

type progressRepo struct {
	s *Store
}

var statsColumns = []string{
	"user_id", "total_xp", "level", "current_streak", "longest_streak",
	"milestones_completed", "quizzes_passed", "quizzes_taken",
	"total_time_spent_mins", "badge_count", "last_active_at", "updated_at",
}

func (r *progressRepo) EnsureStats(ctx context.Context, userID string) (*LearningStats, error) {
	err := r.s.WithTx(ctx, func(tx *Store) error {
		if err := (&userRepo{s: tx}).EnsureUser(ctx, PlaceholderUser(userID)); err != nil {
			return err
		}
		q, args := tx.builder().Insert("learning_stats").
			Columns("user_id", "level", "updated_at").
			Values(userID, 1, time.Now().UTC()).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
			Query()
		_, err := tx.exec(ctx, q, args)
		return err
	})
	if err != nil {
		return nil, apperr.Persistence("ensure stats", err)
	}
	return r.getStats(ctx, userID)
}

func (r *progressRepo) getStats(ctx context.Context, userID string) (*LearningStats, error) {
	b := r.s.builder()
	q, args := b.Select(statsColumns...).
		From(b.Table("learning_stats")).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		st     LearningStats
		active sql.NullTime
	)
	err := r.s.queryRow(ctx, q, args,
		&st.UserID, &st.TotalXP, &st.Level, &st.CurrentStreak, &st.LongestStreak,
		&st.MilestonesCompleted, &st.QuizzesPassed, &st.QuizzesTaken,
		&st.TotalTimeSpentMins, &st.BadgeCount, &active, &st.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.Persistence("get stats", err)
	}
	st.LastActiveAt = timePtr(active)
	return &st, nil
}

func (r *progressRepo) SaveStats(ctx context.Context, st *LearningStats) error {
	st.UpdatedAt = time.Now().UTC()
	q, args := r.s.builder().Update("learning_stats").
		Set("total_xp", st.TotalXP).
		Set("level", st.Level).
		Set("current_streak", st.CurrentStreak).
		Set("longest_streak", st.LongestStreak).
		Set("milestones_completed", st.MilestonesCompleted).
		Set("quizzes_passed", st.QuizzesPassed).
		Set("quizzes_taken", st.QuizzesTaken).
		Set("total_time_spent_mins", st.TotalTimeSpentMins).
		Set("badge_count", st.BadgeCount).
		Set("last_active_at", nullTime(st.LastActiveAt)).
		Set("updated_at", st.UpdatedAt).
		Where(entsql.EQ("user_id", st.UserID)).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return apperr.Persistence("save stats", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *progressRepo) GetMilestoneProgress(ctx context.Context, userID, milestoneID string) (*MilestoneProgress, error) {
	ps, err := r.selectProgress(ctx, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("milestone_id", milestoneID),
	))
	if err != nil {
		return nil, apperr.Persistence("get milestone progress", err)
	}
	if len(ps) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &ps[0], nil
}

func (r *progressRepo) UpsertMilestoneProgress(ctx context.Context, p *MilestoneProgress) error {
	q, args := r.s.builder().Insert("milestone_progress").
		Columns("user_id", "milestone_id", "status", "started_at", "completed_at", "time_spent_mins").
		Values(p.UserID, p.MilestoneID, p.Status, nullTime(p.StartedAt), nullTime(p.CompletedAt), p.TimeSpentMins).
		OnConflict(
			entsql.ConflictColumns("user_id", "milestone_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("upsert milestone progress", err)
	}
	return nil
}

func (r *progressRepo) ListMilestoneProgress(ctx context.Context, userID string, milestoneIDs []string) ([]MilestoneProgress, error) {
	if len(milestoneIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, len(milestoneIDs))
	for i, id := range milestoneIDs {
		ids[i] = id
	}
	ps, err := r.selectProgress(ctx, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.In("milestone_id", ids...),
	))
	if err != nil {
		return nil, apperr.Persistence("list milestone progress", err)
	}
	return ps, nil
}

func (r *progressRepo) selectProgress(ctx context.Context, where *entsql.Predicate) ([]MilestoneProgress, error) {
	b := r.s.builder()
	q, args := b.Select("user_id", "milestone_id", "status", "started_at", "completed_at", "time_spent_mins").
		From(b.Table("milestone_progress")).
		Where(where).
		Query()

	var out []MilestoneProgress
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			p                  MilestoneProgress
			started, completed sql.NullTime
		)
		if err := rows.Scan(&p.UserID, &p.MilestoneID, &p.Status, &started, &completed, &p.TimeSpentMins); err != nil {
			return err
		}
		p.StartedAt = timePtr(started)
		p.CompletedAt = timePtr(completed)
		out = append(out, p)
		return nil
	})
	return out, err
}

func (r *progressRepo) AwardAchievement(ctx context.Context, a Achievement) (bool, error) {
	if a.AwardedAt.IsZero() {
		a.AwardedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert("achievements").
		Columns("user_id", "code", "name", "description", "awarded_at").
		Values(a.UserID, a.Code, a.Name, a.Description, a.AwardedAt).
		OnConflict(entsql.ConflictColumns("user_id", "code"), entsql.DoNothing()).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return false, apperr.Persistence("award achievement", err)
	}
	return n > 0, nil
}

func (r *progressRepo) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	b := r.s.builder()
	q, args := b.Select("user_id", "code", "name", "description", "awarded_at").
		From(b.Table("achievements")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("awarded_at", "id").
		Query()

	var out []Achievement
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var a Achievement
		if err := rows.Scan(&a.UserID, &a.Code, &a.Name, &a.Description, &a.AwardedAt); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence("list achievements", err)
	}
	return out, nil
}

func (r *progressRepo) GetDailyGoal(ctx context.Context, userID, day string) (*DailyGoal, error) {
	b := r.s.builder()
	q, args := b.Select("user_id", "day", "target_mins", "target_quizzes", "mins_completed", "quizzes_solved", "goal_met").
		From(b.Table("daily_goals")).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("day", day))).
		Query()

	var g DailyGoal
	if err := r.s.queryRow(ctx, q, args,
		&g.UserID, &g.Day, &g.TargetMins, &g.TargetQuizzes, &g.MinsCompleted, &g.QuizzesSolved, &g.GoalMet,
	); err != nil {
		return nil, apperr.Persistence("get daily goal", err)
	}
	return &g, nil
}

func (r *progressRepo) SaveDailyGoal(ctx context.Context, g *DailyGoal) error {
	q, args := r.s.builder().Insert("daily_goals").
		Columns("user_id", "day", "target_mins", "target_quizzes", "mins_completed", "quizzes_solved", "goal_met", "updated_at").
		Values(g.UserID, g.Day, g.TargetMins, g.TargetQuizzes, g.MinsCompleted, g.QuizzesSolved, g.GoalMet, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "day"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("save daily goal", err)
	}
	return nil
}

func (r *progressRepo) RecordQuizAttempt(ctx context.Context, a QuizAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	q, args := r.s.builder().Insert("quiz_attempts").
		Columns("user_id", "quiz_id", "selected_index", "correct", "created_at").
		Values(a.UserID, a.QuizID, a.SelectedIndex, a.Correct, a.CreatedAt).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("record quiz attempt", err)
	}
	return nil
}

func (r *progressRepo) RecordResourceView(ctx context.Context, userID, resourceID string) (bool, error) {
	q, args := r.s.builder().Insert("resource_views").
		Columns("user_id", "resource_id", "viewed_at").
		Values(userID, resourceID, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("user_id", "resource_id"), entsql.DoNothing()).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return false, apperr.Persistence("record resource view", err)
	}
	return n > 0, nil
}

func (r *progressRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	b := r.s.builder()
	st := b.Table("learning_stats").As("s")
	u := b.Table("users").As("u")
	sel := b.Select(st.C("user_id"), u.C("full_name"), st.C("total_xp"), st.C("level"), st.C("current_streak")).
		From(st).
		Join(u).On(st.C("user_id"), u.C("id")).
		OrderBy(entsql.Desc(st.C("total_xp")), st.C("user_id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	var out []LeaderboardEntry
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FullName, &e.TotalXP, &e.Level, &e.CurrentStreak); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence("leaderboard", err)
	}
	return out, nil
}
