package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/store"
)

const sampleResume = `Jane Doe - jane@example.com
Backend engineer with 5 years of Go, Docker and PostgreSQL experience.`

const profileJSON = `{
  "fullName": "Jane Doe",
  "email": "jane@example.com",
  "summary": "Backend engineer",
  "skills": [
    {"category": "Languages", "name": "Golang"},
    {"category": "Languages", "name": " golang "},
    {"category": "Infra", "name": "Docker"},
    {"name": ""}
  ],
  "experience": [{"role": "Engineer", "company": "Acme", "description": "Built APIs"}],
  "projects": [{"title": "Ledger", "techStack": ["Go"], "description": "A ledger"}],
  "education": [{"degree": "BSc", "institution": "State U"}]
}`

func analysisJSON(score float64) string {
	return fmt.Sprintf(`{
  "score": %v,
  "summary": " Solid backend base ",
  "topMissingSkills": ["Kubernetes", " ", "gRPC"],
  "recommendedStack": "Go, gRPC, Kubernetes",
  "roadmap": [{"week": "Week 1", "goal": "Kubernetes basics", "tasks": ["Deploy a pod", ""]}],
  "atsFixes": [{"original": "Worked on APIs", "improved": "Shipped 12 APIs", "reason": "metrics"}],
  "projectIdea": "Real-time order system",
  "interviewPrep": "Design a rate limiter"
}`, score)
}

var storeSeq atomic.Int64

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:resume_%d?mode=memory&cache=shared", storeSeq.Add(1))
	st, err := store.OpenSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

type memBlobs struct {
	mu   sync.Mutex
	objs map[string][]byte
	err  error
}

func (m *memBlobs) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objs == nil {
		m.objs = map[string][]byte{}
	}
	m.objs[key] = data
	return "resumes/" + key, nil
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objs[strings.TrimPrefix(key, "resumes/")], nil
}

func TestDetectMime(t *testing.T) {
	assert.Equal(t, MimePDF, DetectMime("cv.PDF", ""))
	assert.Equal(t, MimeDOCX, DetectMime("cv.docx", "application/octet-stream"))
	assert.Equal(t, MimeText, DetectMime("cv.bin", "text/plain; charset=utf-8"))
	assert.Equal(t, "", DetectMime("cv.exe", ""))
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(MimeText, []byte("  "+sampleResume+"\n"))
	require.NoError(t, err)
	assert.Equal(t, sampleResume, text)

	_, err = ExtractText(MimeText, []byte("too short"))
	assert.True(t, apperr.IsValidation(err))

	_, err = ExtractText(MimePDF, []byte("definitely not a pdf document"))
	assert.True(t, apperr.IsValidation(err), "corrupt pdf: %v", err)

	_, err = ExtractText("image/png", []byte(sampleResume))
	assert.True(t, apperr.IsValidation(err))
}

func TestDocxText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>R&amp;D</w:t></w:r><w:r><w:br/><w:t>Line two</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	assert.Equal(t, "Jane Doe\nGo R&D\nLine two", docxText(xml))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusStrong, StatusFor(75))
	assert.Equal(t, StatusPartial, StatusFor(74))
	assert.Equal(t, StatusPartial, StatusFor(50))
	assert.Equal(t, StatusLow, StatusFor(49))
}

func TestParser(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(profileJSON)})
	cfg := DefaultConfig()
	cfg.MaxResumeChars = 10

	p, err := NewParser(mock, cfg).Parse(context.Background(), "0123456789abcdef")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.FullName)
	require.Len(t, p.Skills, 2)
	assert.Equal(t, "Golang", p.Skills[0].Name)
	assert.Equal(t, "Docker", p.Skills[1].Name)

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	require.NotNil(t, req.Temperature, "parse temperature must be explicit")
	assert.Equal(t, 0.0, *req.Temperature)
	assert.Equal(t, ProfileSchema.Name, req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, "0123456789")
	assert.NotContains(t, req.Messages[0].Content, "abcdef")
}

func TestParser_DelegateFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	_, err := NewParser(mock, DefaultConfig()).Parse(context.Background(), sampleResume)
	assert.True(t, apperr.IsDelegate(err))
}

func TestAnalyzer(t *testing.T) {
	tests := []struct {
		raw    float64
		score  int
		status Status
	}{
		{82.4, 82, StatusStrong},
		{60, 60, StatusPartial},
		{130, 100, StatusStrong},
		{-3, 0, StatusLow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.raw), func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(analysisJSON(tt.raw))})
			a, err := NewAnalyzer(mock, DefaultConfig()).Analyze(context.Background(), AnalyzeInput{
				ResumeText: sampleResume, JobDescription: "Go and Kubernetes", TargetRole: "Backend Engineer",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.score, a.MatchScore)
			assert.Equal(t, tt.status, a.Status)
		})
	}
}

func TestAnalyzer_Normalizes(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(analysisJSON(70))})
	a, err := NewAnalyzer(mock, DefaultConfig()).Analyze(context.Background(), AnalyzeInput{
		ResumeText: sampleResume, JobDescription: "Go and Kubernetes", TargetRole: "Backend Engineer",
	})
	require.NoError(t, err)

	assert.Equal(t, "Solid backend base", a.Summary)
	assert.Equal(t, []string{"Kubernetes", "gRPC"}, a.TopMissingSkills)
	require.Len(t, a.Roadmap, 1)
	assert.Equal(t, WeekPlan{Week: "Week 1", Focus: "Kubernetes basics", Tasks: []string{"Deploy a pod"}}, a.Roadmap[0])
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Target role: Backend Engineer")
}

func TestAnalyzer_Validation(t *testing.T) {
	mock := llm.NewMockProvider()
	an := NewAnalyzer(mock, DefaultConfig())

	_, err := an.Analyze(context.Background(), AnalyzeInput{JobDescription: "x", TargetRole: "y"})
	assert.True(t, apperr.IsValidation(err))
	_, err = an.Analyze(context.Background(), AnalyzeInput{ResumeText: "x", TargetRole: "y"})
	assert.True(t, apperr.IsValidation(err))
	_, err = an.Analyze(context.Background(), AnalyzeInput{ResumeText: "x", JobDescription: "y"})
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, mock.Calls)
}

func newService(t *testing.T, mock *llm.MockProvider, blobs *memBlobs) (*Service, *store.Store, *events.Recorder) {
	t.Helper()
	st := openTestStore(t)
	rec := &events.Recorder{}
	return New(mock, blobs, st.ResumeRepo(), rec, DefaultConfig()), st, rec
}

func TestService_UploadAndAnalyzeStored(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(profileJSON)},
		llm.MockResponse{Content: json.RawMessage(analysisJSON(55))},
	)
	blobs := &memBlobs{}
	svc, st, rec := newService(t, mock, blobs)
	ctx := context.Background()

	up, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "cv.txt", Data: []byte(sampleResume)})
	require.NoError(t, err)
	assert.Equal(t, "resumes/u1/"+up.ResumeID+".txt", up.ObjectKey)
	assert.Equal(t, sampleResume, up.Text)
	assert.Len(t, blobs.objs, 1)

	stored, err := st.ResumeRepo().GetResume(ctx, up.ResumeID)
	require.NoError(t, err)
	assert.Equal(t, MimeText, stored.MimeType)
	assert.Equal(t, sampleResume, stored.RawText)
	assert.Contains(t, string(stored.Parsed), "Golang")

	res, err := svc.Analyze(ctx, AnalyzeRequest{
		UserID: "u1", ResumeID: up.ResumeID, JobDescription: "Go and Kubernetes", TargetRole: "Backend Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, 55, res.MatchScore)
	assert.Equal(t, StatusPartial, res.Status)
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "PostgreSQL")

	history, err := svc.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.AnalysisID, history[0].ID)
	assert.Equal(t, up.ResumeID, history[0].ResumeID)
	assert.Equal(t, string(StatusPartial), history[0].Status)

	assert.Equal(t, []string{events.ResumeAnalyzed}, rec.Keys())
}

func TestService_UploadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown type", func(t *testing.T) {
		svc, _, _ := newService(t, llm.NewMockProvider(), &memBlobs{})
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "cv.exe", Data: []byte(sampleResume)})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("empty file", func(t *testing.T) {
		svc, _, _ := newService(t, llm.NewMockProvider(), &memBlobs{})
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "cv.txt"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("blob failure", func(t *testing.T) {
		svc, _, _ := newService(t, llm.NewMockProvider(), &memBlobs{err: errors.New("bucket gone")})
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "cv.txt", Data: []byte(sampleResume)})
		assert.True(t, apperr.IsPersistence(err))
	})

	t.Run("parser down", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
		svc, st, _ := newService(t, mock, &memBlobs{})
		_, err := svc.Upload(ctx, UploadInput{UserID: "u1", FileName: "cv.txt", Data: []byte(sampleResume)})
		assert.True(t, apperr.IsDelegate(err))

		_, err = st.ResumeRepo().LatestResume(ctx, "u1")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_AnalyzeDelegateFailureStoresNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc, _, rec := newService(t, mock, &memBlobs{})
	ctx := context.Background()

	_, err := svc.Analyze(ctx, AnalyzeRequest{
		UserID: "u1", ResumeText: sampleResume, JobDescription: "Go", TargetRole: "Backend Engineer",
	})
	require.True(t, apperr.IsDelegate(err))

	history, err := svc.History(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, rec.Keys())
}

func TestService_AnalyzeUnknownResume(t *testing.T) {
	svc, _, _ := newService(t, llm.NewMockProvider(), &memBlobs{})
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		UserID: "u1", ResumeID: "missing", JobDescription: "Go", TargetRole: "Backend Engineer",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
