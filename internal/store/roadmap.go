package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/careerpilot/internal/apperr"
)

type roadmapRepo struct {
	s *Store
}

var (
	roadmapColumns = []string{
		"id", "user_id", "title", "goal", "is_intensive",
		"time_box_value", "time_box_unit", "is_completed", "created_at", "completed_at",
	}
	milestoneColumns = []string{
		"id", "roadmap_id", "position", "title", "description",
		"duration", "duration_unit", "start_offset", "estimated_hours", "difficulty",
	}
	resourceColumns = []string{"id", "milestone_id", "position", "title", "url", "type", "score"}
	quizColumns     = []string{"id", "milestone_id", "position", "question", "options", "correct_index", "explanation"}
)

// SaveRoadmap assigns missing IDs in place and writes the whole tree.
func (r *roadmapRepo) SaveRoadmap(ctx context.Context, rm *Roadmap) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	if rm.CreatedAt.IsZero() {
		rm.CreatedAt = time.Now().UTC()
	}

	err := r.s.WithTx(ctx, func(tx *Store) error {
		if err := (&userRepo{s: tx}).EnsureUser(ctx, PlaceholderUser(rm.UserID)); err != nil {
			return err
		}

		b := tx.builder()
		q, args := b.Insert("roadmaps").
			Columns(roadmapColumns...).
			Values(rm.ID, rm.UserID, rm.Title, rm.Goal, rm.IsIntensive,
				rm.TimeBoxValue, rm.TimeBoxUnit, rm.IsCompleted, rm.CreatedAt, nullTime(rm.CompletedAt)).
			Query()
		if _, err := tx.exec(ctx, q, args); err != nil {
			return fmt.Errorf("insert roadmap: %w", err)
		}

		for i := range rm.Milestones {
			m := &rm.Milestones[i]
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			m.RoadmapID = rm.ID
			q, args := b.Insert("milestones").
				Columns(milestoneColumns...).
				Values(m.ID, m.RoadmapID, m.Position, m.Title, m.Description,
					m.Duration, m.DurationUnit, m.StartOffset, m.EstimatedHours, m.Difficulty).
				Query()
			if _, err := tx.exec(ctx, q, args); err != nil {
				return fmt.Errorf("insert milestone %d: %w", m.Position, err)
			}

			for j := range m.Resources {
				res := &m.Resources[j]
				if res.ID == "" {
					res.ID = uuid.NewString()
				}
				res.MilestoneID = m.ID
				if res.Position == 0 {
					res.Position = j + 1
				}
				q, args := b.Insert("resources").
					Columns(resourceColumns...).
					Values(res.ID, res.MilestoneID, res.Position, res.Title, res.URL, res.Type, res.Score).
					Query()
				if _, err := tx.exec(ctx, q, args); err != nil {
					return fmt.Errorf("insert resource: %w", err)
				}
			}

			for j := range m.Quizzes {
				qz := &m.Quizzes[j]
				if qz.ID == "" {
					qz.ID = uuid.NewString()
				}
				qz.MilestoneID = m.ID
				if qz.Position == 0 {
					qz.Position = j + 1
				}
				opts, err := jsonValue(nonNilStrings(qz.Options))
				if err != nil {
					return err
				}
				q, args := b.Insert("quizzes").
					Columns(quizColumns...).
					Values(qz.ID, qz.MilestoneID, qz.Position, qz.Question, opts, qz.CorrectIndex, qz.Explanation).
					Query()
				if _, err := tx.exec(ctx, q, args); err != nil {
					return fmt.Errorf("insert quiz: %w", err)
				}
			}
		}
		return nil
	})
	return apperr.Persistence("save roadmap", err)
}

func (r *roadmapRepo) GetRoadmap(ctx context.Context, id string) (*Roadmap, error) {
	rms, err := r.selectRoadmaps(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, apperr.Persistence("get roadmap", err)
	}
	if len(rms) == 0 {
		return nil, apperr.ErrNotFound
	}
	rm := &rms[0]

	ms, err := r.selectMilestones(ctx, entsql.EQ("roadmap_id", rm.ID))
	if err != nil {
		return nil, apperr.Persistence("get roadmap milestones", err)
	}
	if len(ms) == 0 {
		return rm, nil
	}

	ids := make([]any, len(ms))
	index := make(map[string]int, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
		index[m.ID] = i
	}

	resources, err := r.selectResources(ctx, entsql.In("milestone_id", ids...))
	if err != nil {
		return nil, apperr.Persistence("get roadmap resources", err)
	}
	for _, res := range resources {
		i := index[res.MilestoneID]
		ms[i].Resources = append(ms[i].Resources, res)
	}

	quizzes, err := r.selectQuizzes(ctx, entsql.In("milestone_id", ids...))
	if err != nil {
		return nil, apperr.Persistence("get roadmap quizzes", err)
	}
	for _, qz := range quizzes {
		i := index[qz.MilestoneID]
		ms[i].Quizzes = append(ms[i].Quizzes, qz)
	}

	rm.Milestones = ms
	return rm, nil
}

func (r *roadmapRepo) ListRoadmaps(ctx context.Context, userID string) ([]Roadmap, error) {
	rms, err := r.selectRoadmaps(ctx, entsql.EQ("user_id", userID))
	if err != nil {
		return nil, apperr.Persistence("list roadmaps", err)
	}
	for i := range rms {
		ms, err := r.selectMilestones(ctx, entsql.EQ("roadmap_id", rms[i].ID))
		if err != nil {
			return nil, apperr.Persistence("list roadmap milestones", err)
		}
		rms[i].Milestones = ms
	}
	return rms, nil
}

func (r *roadmapRepo) GetMilestone(ctx context.Context, id string) (*Milestone, error) {
	ms, err := r.selectMilestones(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, apperr.Persistence("get milestone", err)
	}
	if len(ms) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &ms[0], nil
}

func (r *roadmapRepo) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	qs, err := r.selectQuizzes(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, apperr.Persistence("get quiz", err)
	}
	if len(qs) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &qs[0], nil
}

func (r *roadmapRepo) GetResource(ctx context.Context, id string) (*Resource, error) {
	rs, err := r.selectResources(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, apperr.Persistence("get resource", err)
	}
	if len(rs) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &rs[0], nil
}

func (r *roadmapRepo) MarkRoadmapCompleted(ctx context.Context, id string) (bool, error) {
	q, args := r.s.builder().Update("roadmaps").
		Set("is_completed", true).
		Set("completed_at", time.Now().UTC()).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("is_completed", false),
		)).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return false, apperr.Persistence("complete roadmap", err)
	}
	return n > 0, nil
}

func (r *roadmapRepo) selectRoadmaps(ctx context.Context, where *entsql.Predicate) ([]Roadmap, error) {
	b := r.s.builder()
	q, args := b.Select(roadmapColumns...).
		From(b.Table("roadmaps")).
		Where(where).
		OrderBy(entsql.Desc("created_at")).
		Query()

	var out []Roadmap
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			rm        Roadmap
			completed sql.NullTime
		)
		if err := rows.Scan(&rm.ID, &rm.UserID, &rm.Title, &rm.Goal, &rm.IsIntensive,
			&rm.TimeBoxValue, &rm.TimeBoxUnit, &rm.IsCompleted, &rm.CreatedAt, &completed); err != nil {
			return err
		}
		rm.CompletedAt = timePtr(completed)
		out = append(out, rm)
		return nil
	})
	return out, err
}

func (r *roadmapRepo) selectMilestones(ctx context.Context, where *entsql.Predicate) ([]Milestone, error) {
	b := r.s.builder()
	q, args := b.Select(milestoneColumns...).
		From(b.Table("milestones")).
		Where(where).
		OrderBy("position").
		Query()

	var out []Milestone
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.RoadmapID, &m.Position, &m.Title, &m.Description,
			&m.Duration, &m.DurationUnit, &m.StartOffset, &m.EstimatedHours, &m.Difficulty); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func (r *roadmapRepo) selectResources(ctx context.Context, where *entsql.Predicate) ([]Resource, error) {
	b := r.s.builder()
	q, args := b.Select(resourceColumns...).
		From(b.Table("resources")).
		Where(where).
		OrderBy("milestone_id", "position").
		Query()

	var out []Resource
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var res Resource
		if err := rows.Scan(&res.ID, &res.MilestoneID, &res.Position, &res.Title, &res.URL, &res.Type, &res.Score); err != nil {
			return err
		}
		out = append(out, res)
		return nil
	})
	return out, err
}

func (r *roadmapRepo) selectQuizzes(ctx context.Context, where *entsql.Predicate) ([]Quiz, error) {
	b := r.s.builder()
	q, args := b.Select(quizColumns...).
		From(b.Table("quizzes")).
		Where(where).
		OrderBy("milestone_id", "position").
		Query()

	var out []Quiz
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			qz   Quiz
			opts []byte
		)
		if err := rows.Scan(&qz.ID, &qz.MilestoneID, &qz.Position, &qz.Question, &opts, &qz.CorrectIndex, &qz.Explanation); err != nil {
			return err
		}
		if err := decodeJSON(opts, &qz.Options); err != nil {
			return err
		}
		out = append(out, qz)
		return nil
	})
	return out, err
}
