package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/blob"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/store"
)

// MaxUploadBytes caps a single resume file.
const MaxUploadBytes = 10 << 20

// Deps are the collaborators of a Service.
type Deps struct {
	Parser   *Parser
	Analyzer *Analyzer
	Blobs    blob.Store
	Repo     store.ResumeRepo
	Events   events.Publisher
}

// Service stores resumes and their analyses.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Blobs == nil {
		deps.Blobs = blob.NopStore{}
	}
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	return &Service{deps: deps}
}

// New wires a Service around one LLM provider.
func New(provider llm.Provider, blobs blob.Store, repo store.ResumeRepo, pub events.Publisher, cfg Config) *Service {
	return NewService(Deps{
		Parser:   NewParser(provider, cfg),
		Analyzer: NewAnalyzer(provider, cfg),
		Blobs:    blobs,
		Repo:     repo,
		Events:   pub,
	})
}

// Upload stores the raw file, extracts and parses its text, and persists
// the resume.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apperr.Invalid("userId", "userId is required")
	}
	if len(in.Data) == 0 {
		return nil, apperr.Invalid("file", "no file uploaded")
	}
	ctx = llm.WithUser(ctx, in.UserID)
	if len(in.Data) > MaxUploadBytes {
		return nil, apperr.Invalid("file", "file exceeds %d bytes", MaxUploadBytes)
	}
	mime := DetectMime(in.FileName, in.MimeType)
	if mime == "" {
		return nil, apperr.Invalid("file", "cannot determine file type of %q", in.FileName)
	}

	resumeID := uuid.NewString()
	key := path.Join(in.UserID, resumeID+strings.ToLower(filepath.Ext(in.FileName)))
	objectKey, err := s.deps.Blobs.Put(ctx, key, mime, in.Data)
	if err != nil {
		return nil, apperr.Persistence("store upload", err)
	}

	text, err := ExtractText(mime, in.Data)
	if err != nil {
		return nil, err
	}
	profile, err := s.deps.Parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	parsed, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	rec := &store.Resume{
		ID:        resumeID,
		UserID:    in.UserID,
		FileName:  filepath.Base(in.FileName),
		MimeType:  mime,
		ObjectKey: objectKey,
		RawText:   text,
		Parsed:    parsed,
	}
	if err := s.deps.Repo.SaveResume(ctx, rec); err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Infow("resume uploaded",
		logx.Field("resumeId", rec.ID),
		logx.Field("userId", in.UserID),
		logx.Field("skills", len(profile.Skills)))
	return &UploadResult{ResumeID: rec.ID, ObjectKey: objectKey, Text: text, Profile: *profile}, nil
}

// Analyze runs a gap analysis on inline text or a stored resume and
// persists it.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperr.Invalid("userId", "userId is required")
	}
	ctx = llm.WithUser(ctx, req.UserID)
	text := req.ResumeText
	if strings.TrimSpace(text) == "" && req.ResumeID != "" {
		r, err := s.deps.Repo.GetResume(ctx, req.ResumeID)
		if err != nil {
			return nil, fmt.Errorf("resume %s: %w", req.ResumeID, err)
		}
		text = r.RawText
	}

	a, err := s.deps.Analyzer.Analyze(ctx, AnalyzeInput{
		ResumeText:     text,
		JobDescription: req.JobDescription,
		TargetRole:     req.TargetRole,
	})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	rec := &store.Analysis{
		UserID:         req.UserID,
		ResumeID:       req.ResumeID,
		TargetRole:     req.TargetRole,
		JobDescription: req.JobDescription,
		MatchScore:     a.MatchScore,
		Status:         string(a.Status),
		Result:         body,
	}
	if err := s.deps.Repo.SaveAnalysis(ctx, rec); err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Infow("resume analyzed",
		logx.Field("analysisId", rec.ID),
		logx.Field("score", a.MatchScore),
		logx.Field("status", a.Status))
	events.Emit(ctx, s.deps.Events, events.ResumeAnalyzed, map[string]any{
		"analysisId": rec.ID,
		"userId":     req.UserID,
		"score":      a.MatchScore,
		"status":     a.Status,
	})
	return &AnalyzeResult{AnalysisID: rec.ID, Analysis: *a}, nil
}

// History returns the user's stored analyses, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("userId", "userId is required")
	}
	return s.deps.Repo.ListAnalyses(ctx, userID, limit)
}
