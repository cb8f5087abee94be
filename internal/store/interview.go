package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/careerpilot/internal/apperr"
)

type interviewRepo struct {
	s *Store
}

var sessionColumns = []string{
	"id", "user_id", "role", "category", "seniority", "focus_topics",
	"question_index", "max_questions", "status", "topics",
	"hint_question", "hint_text", "report",
	"created_at", "updated_at", "completed_at",
}

var turnColumns = []string{
	"id", "session_id", "position", "author", "content",
	"question_index", "metrics", "created_at",
}

func (r *interviewRepo) EnsureSession(ctx context.Context, in InterviewSession) (*InterviewSession, error) {
	now := time.Now().UTC()
	if in.Status == "" {
		in.Status = SessionNotStarted
	}
	topics, err := jsonValue(nonNilStrings(in.Topics))
	if err != nil {
		return nil, err
	}

	q, args := r.s.builder().Insert("interview_sessions").
		Columns(
			"id", "user_id", "role", "category", "seniority", "focus_topics",
			"question_index", "max_questions", "status", "topics",
			"hint_question", "hint_text", "created_at", "updated_at",
		).
		Values(
			in.ID, in.UserID, in.Role, in.Category, in.Seniority, in.FocusTopics,
			in.QuestionIndex, in.MaxQuestions, string(in.Status), topics,
			0, "", now, now,
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return nil, apperr.Persistence("ensure session", err)
	}
	return r.GetSession(ctx, in.ID)
}

func (r *interviewRepo) GetSession(ctx context.Context, id string) (*InterviewSession, error) {
	b := r.s.builder()
	q, args := b.Select(sessionColumns...).
		From(b.Table("interview_sessions")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		sess      InterviewSession
		status    string
		topics    []byte
		report    []byte
		completed sql.NullTime
	)
	err := r.s.queryRow(ctx, q, args,
		&sess.ID, &sess.UserID, &sess.Role, &sess.Category, &sess.Seniority, &sess.FocusTopics,
		&sess.QuestionIndex, &sess.MaxQuestions, &status, &topics,
		&sess.HintQuestion, &sess.HintText, &report,
		&sess.CreatedAt, &sess.UpdatedAt, &completed,
	)
	if err != nil {
		return nil, apperr.Persistence("get session", err)
	}
	sess.Status = SessionStatus(status)
	if err := decodeJSON(topics, &sess.Topics); err != nil {
		return nil, err
	}
	sess.Report = rawJSON(report)
	sess.CompletedAt = timePtr(completed)
	return &sess, nil
}

// StartSession moves a NOT_STARTED session to IN_PROGRESS.
func (r *interviewRepo) StartSession(ctx context.Context, id string) error {
	q, args := r.s.builder().Update("interview_sessions").
		Set("status", string(SessionInProgress)).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(SessionNotStarted)),
		)).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("start session", err)
	}
	return nil
}

// ConfigureSession replaces the interview settings of a session that has
// not been answered yet. Started sessions keep what they have.
func (r *interviewRepo) ConfigureSession(ctx context.Context, in InterviewSession) (*InterviewSession, error) {
	q, args := r.s.builder().Update("interview_sessions").
		Set("role", in.Role).
		Set("category", in.Category).
		Set("seniority", in.Seniority).
		Set("focus_topics", in.FocusTopics).
		Set("max_questions", in.MaxQuestions).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.And(
			entsql.EQ("id", in.ID),
			entsql.EQ("status", string(SessionNotStarted)),
			entsql.EQ("question_index", 0),
		)).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return nil, apperr.Persistence("configure session", err)
	}
	return r.GetSession(ctx, in.ID)
}

func (r *interviewRepo) AppendTurn(ctx context.Context, t Turn) (*Turn, error) {
	var out *Turn
	err := r.s.WithTx(ctx, func(tx *Store) error {
		var err error
		out, err = (&interviewRepo{s: tx}).appendTurn(ctx, t)
		return err
	})
	if err != nil {
		return nil, apperr.Persistence("append turn", err)
	}
	return out, nil
}

// appendTurn must run inside a transaction so the position read and the
// insert are not interleaved with another writer.
func (r *interviewRepo) appendTurn(ctx context.Context, t Turn) (*Turn, error) {
	b := r.s.builder()
	q, args := b.Select("COALESCE(MAX(position), 0)").
		From(b.Table("interview_turns")).
		Where(entsql.EQ("session_id", t.SessionID)).
		Query()
	var last int
	if err := r.s.queryRow(ctx, q, args, &last); err != nil {
		return nil, fmt.Errorf("next turn position: %w", err)
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Position = last + 1

	var metrics any
	if t.Metrics != nil {
		v, err := jsonValue(t.Metrics)
		if err != nil {
			return nil, err
		}
		metrics = v
	}

	q, args = b.Insert("interview_turns").
		Columns(turnColumns...).
		Values(t.ID, t.SessionID, t.Position, string(t.Author), t.Content, t.QuestionIndex, metrics, t.CreatedAt).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}
	return &t, nil
}

func (r *interviewRepo) RecentTurns(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	b := r.s.builder()
	sel := b.Select(turnColumns...).
		From(b.Table("interview_turns")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Desc("position"))
	if n > 0 {
		sel = sel.Limit(n)
	}
	q, args := sel.Query()

	turns, err := r.scanTurns(ctx, q, args)
	if err != nil {
		return nil, apperr.Persistence("recent turns", err)
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (r *interviewRepo) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	b := r.s.builder()
	q, args := b.Select(turnColumns...).
		From(b.Table("interview_turns")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("position")).
		Query()

	turns, err := r.scanTurns(ctx, q, args)
	if err != nil {
		return nil, apperr.Persistence("list turns", err)
	}
	return turns, nil
}

func (r *interviewRepo) scanTurns(ctx context.Context, q string, args []any) ([]Turn, error) {
	var turns []Turn
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			t       Turn
			author  string
			metrics []byte
		)
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Position, &author, &t.Content, &t.QuestionIndex, &metrics, &t.CreatedAt); err != nil {
			return err
		}
		t.Author = Author(author)
		if len(metrics) > 0 {
			t.Metrics = &TurnMetrics{}
			if err := decodeJSON(metrics, t.Metrics); err != nil {
				return err
			}
		}
		turns = append(turns, t)
		return nil
	})
	return turns, err
}

func (r *interviewRepo) RecordEvaluation(ctx context.Context, adv SessionAdvance) error {
	topics, err := jsonValue(nonNilStrings(adv.Topics))
	if err != nil {
		return err
	}

	err = r.s.WithTx(ctx, func(tx *Store) error {
		q, args := tx.builder().Update("interview_sessions").
			Set("question_index", adv.FromIndex+1).
			Set("topics", topics).
			Set("status", string(SessionInProgress)).
			Set("updated_at", time.Now().UTC()).
			Where(entsql.And(
				entsql.EQ("id", adv.SessionID),
				entsql.EQ("question_index", adv.FromIndex),
				entsql.NEQ("status", string(SessionComplete)),
			)).
			Query()
		n, err := tx.exec(ctx, q, args)
		if err != nil {
			return fmt.Errorf("advance session: %w", err)
		}
		if n == 0 {
			return &apperr.ConflictError{
				Resource: "interview session",
				Message:  fmt.Sprintf("session %s is no longer at question %d", adv.SessionID, adv.FromIndex),
			}
		}

		turn := adv.AITurn
		turn.SessionID = adv.SessionID
		_, err = (&interviewRepo{s: tx}).appendTurn(ctx, turn)
		return err
	})
	return apperr.Persistence("record evaluation", err)
}

func (r *interviewRepo) SaveHint(ctx context.Context, sessionID string, question int, hint string) error {
	q, args := r.s.builder().Update("interview_sessions").
		Set("hint_question", question).
		Set("hint_text", hint).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", sessionID)).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return apperr.Persistence("save hint", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) CompleteSession(ctx context.Context, id string, report json.RawMessage) (bool, error) {
	now := time.Now().UTC()
	rep, err := jsonValue(report)
	if err != nil {
		return false, err
	}
	q, args := r.s.builder().Update("interview_sessions").
		Set("status", string(SessionComplete)).
		Set("report", rep).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.NEQ("status", string(SessionComplete)),
		)).
		Query()
	n, err := r.s.exec(ctx, q, args)
	if err != nil {
		return false, apperr.Persistence("complete session", err)
	}
	if n == 0 {
		if _, err := r.GetSession(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
