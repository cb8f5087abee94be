package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

// Analyzer compares a resume against a job description through the LLM.
type Analyzer struct {
	provider llm.Provider
	cfg      Config
}

func NewAnalyzer(provider llm.Provider, cfg Config) *Analyzer {
	return &Analyzer{provider: provider, cfg: cfg}
}

type analysisOutput struct {
	Score            float64  `json:"score"`
	Summary          string   `json:"summary"`
	TopMissingSkills []string `json:"topMissingSkills"`
	RecommendedStack string   `json:"recommendedStack"`
	Roadmap          []struct {
		Week  string   `json:"week"`
		Goal  string   `json:"goal"`
		Tasks []string `json:"tasks"`
	} `json:"roadmap"`
	ATSFixes      []ATSFix `json:"atsFixes"`
	ProjectIdea   string   `json:"projectIdea"`
	InterviewPrep string   `json:"interviewPrep"`
}

// Analyze makes one delegate call. The status always follows the clamped
// score.
func (a *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) (*Analysis, error) {
	if strings.TrimSpace(in.ResumeText) == "" {
		return nil, apperr.Invalid("resumeText", "resume text is required")
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, apperr.Invalid("jobDescription", "job description is required")
	}
	if strings.TrimSpace(in.TargetRole) == "" {
		return nil, apperr.Invalid("jobRole", "job role is required")
	}
	ctx = llm.WithPurpose(ctx, "resume-analysis")

	msg, err := buildAnalyzeMessage(in, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}
	resp, err := a.provider.Generate(ctx, llm.Prompt(analyzeSystemPrompt, msg,
		AnalysisSchema, a.cfg.AnalyzeMaxTokens, a.cfg.AnalyzeTemperature))
	if err != nil {
		return nil, apperr.Delegate("analyze resume", err)
	}

	var out analysisOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, apperr.Delegate("analyze resume", fmt.Errorf("parse analysis: %w", err))
	}

	score := clampScore(out.Score)
	res := &Analysis{
		MatchScore:       score,
		Status:           StatusFor(score),
		Summary:          strings.TrimSpace(out.Summary),
		TopMissingSkills: trimAll(out.TopMissingSkills),
		RecommendedStack: strings.TrimSpace(out.RecommendedStack),
		ATSFixes:         out.ATSFixes,
		ProjectIdea:      strings.TrimSpace(out.ProjectIdea),
		InterviewPrep:    strings.TrimSpace(out.InterviewPrep),
	}
	for _, w := range out.Roadmap {
		res.Roadmap = append(res.Roadmap, WeekPlan{Week: w.Week, Focus: w.Goal, Tasks: trimAll(w.Tasks)})
	}
	return res, nil
}

func clampScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, raw))))
}
