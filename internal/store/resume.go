package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/careerpilot/internal/apperr"
)

type resumeRepo struct {
	s *Store
}

var (
	resumeColumns   = []string{"id", "user_id", "file_name", "mime_type", "object_key", "raw_text", "parsed", "created_at"}
	analysisColumns = []string{"id", "user_id", "resume_id", "target_role", "job_description", "match_score", "status", "result", "created_at"}
)

func (r *resumeRepo) SaveResume(ctx context.Context, res *Resume) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	parsed, err := jsonValue(res.Parsed)
	if err != nil {
		return err
	}

	err = r.s.WithTx(ctx, func(tx *Store) error {
		if err := (&userRepo{s: tx}).EnsureUser(ctx, PlaceholderUser(res.UserID)); err != nil {
			return err
		}
		q, args := tx.builder().Insert("resumes").
			Columns(resumeColumns...).
			Values(res.ID, res.UserID, res.FileName, res.MimeType, res.ObjectKey, res.RawText, parsed, res.CreatedAt).
			Query()
		_, err := tx.exec(ctx, q, args)
		return err
	})
	return apperr.Persistence("save resume", err)
}

func (r *resumeRepo) GetResume(ctx context.Context, id string) (*Resume, error) {
	out, err := r.selectResumes(ctx, entsql.EQ("id", id), 1)
	if err != nil {
		return nil, apperr.Persistence("get resume", err)
	}
	if len(out) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &out[0], nil
}

func (r *resumeRepo) LatestResume(ctx context.Context, userID string) (*Resume, error) {
	out, err := r.selectResumes(ctx, entsql.EQ("user_id", userID), 1)
	if err != nil {
		return nil, apperr.Persistence("latest resume", err)
	}
	if len(out) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &out[0], nil
}

func (r *resumeRepo) selectResumes(ctx context.Context, where *entsql.Predicate, limit int) ([]Resume, error) {
	b := r.s.builder()
	q, args := b.Select(resumeColumns...).
		From(b.Table("resumes")).
		Where(where).
		OrderBy(entsql.Desc("created_at")).
		Limit(limit).
		Query()

	var out []Resume
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			res    Resume
			parsed []byte
		)
		if err := rows.Scan(&res.ID, &res.UserID, &res.FileName, &res.MimeType, &res.ObjectKey, &res.RawText, &parsed, &res.CreatedAt); err != nil {
			return err
		}
		res.Parsed = rawJSON(parsed)
		out = append(out, res)
		return nil
	})
	return out, err
}

func (r *resumeRepo) SaveAnalysis(ctx context.Context, a *Analysis) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	result, err := jsonValue(a.Result)
	if err != nil {
		return err
	}
	var resumeID any
	if a.ResumeID != "" {
		resumeID = a.ResumeID
	}

	q, args := r.s.builder().Insert("analyses").
		Columns(analysisColumns...).
		Values(a.ID, a.UserID, resumeID, a.TargetRole, a.JobDescription, a.MatchScore, a.Status, result, a.CreatedAt).
		Query()
	if _, err := r.s.exec(ctx, q, args); err != nil {
		return apperr.Persistence("save analysis", err)
	}
	return nil
}

func (r *resumeRepo) ListAnalyses(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	b := r.s.builder()
	sel := b.Select(analysisColumns...).
		From(b.Table("analyses")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()

	var out []Analysis
	err := r.s.queryRows(ctx, q, args, func(rows *sql.Rows) error {
		var (
			a        Analysis
			resumeID sql.NullString
			result   []byte
		)
		if err := rows.Scan(&a.ID, &a.UserID, &resumeID, &a.TargetRole, &a.JobDescription, &a.MatchScore, &a.Status, &result, &a.CreatedAt); err != nil {
			return err
		}
		a.ResumeID = resumeID.String
		a.Result = rawJSON(result)
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, apperr.Persistence("list analyses", err)
	}
	return out, nil
}
