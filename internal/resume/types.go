// Package resume extracts resume text, parses it into a structured
// profile, and compares it against a job description.
package resume

import "strings"

// Skill is one normalized skill from a resume.
type Skill struct {
	Category string `json:"category,omitempty"`
	Name     string `json:"name"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description"`
}

type Project struct {
	Title       string   `json:"title"`
	TechStack   []string `json:"techStack"`
	Description string   `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Profile is the structured form of a resume.
type Profile struct {
	FullName   string       `json:"fullName,omitempty"`
	Email      string       `json:"email,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
}

// Status buckets a match score.
type Status string

const (
	StatusStrong  Status = "STRONG_MATCH"
	StatusPartial Status = "PARTIAL_MATCH"
	StatusLow     Status = "LOW_MATCH"
)

// StatusFor derives the status from a 0-100 match score.
func StatusFor(score int) Status {
	switch {
	case score >= 75:
		return StatusStrong
	case score >= 50:
		return StatusPartial
	default:
		return StatusLow
	}
}

// WeekPlan is one week of the gap-closing plan.
type WeekPlan struct {
	Week  string   `json:"week"`
	Focus string   `json:"focus"`
	Tasks []string `json:"tasks"`
}

// ATSFix is a rewritten resume bullet.
type ATSFix struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

// Analysis is a resume-versus-job gap analysis.
type Analysis struct {
	MatchScore       int        `json:"matchScore"`
	Status           Status     `json:"status"`
	Summary          string     `json:"summary"`
	TopMissingSkills []string   `json:"topMissingSkills"`
	RecommendedStack string     `json:"recommendedStack"`
	Roadmap          []WeekPlan `json:"roadmap"`
	ATSFixes         []ATSFix   `json:"atsFixes"`
	ProjectIdea      string     `json:"projectIdea"`
	InterviewPrep    string     `json:"interviewPrep"`
}

// AnalyzeInput is what the Analyzer compares.
type AnalyzeInput struct {
	ResumeText     string
	JobDescription string
	TargetRole     string
}

// UploadInput is a raw resume file from a user.
type UploadInput struct {
	UserID   string
	FileName string
	MimeType string
	Data     []byte
}

// UploadResult is what Upload stored.
type UploadResult struct {
	ResumeID  string  `json:"resumeId"`
	ObjectKey string  `json:"objectKey"`
	Text      string  `json:"text"`
	Profile   Profile `json:"profile"`
}

// AnalyzeRequest asks for a gap analysis of either inline resume text or a
// stored resume.
type AnalyzeRequest struct {
	UserID         string `json:"userId"`
	ResumeID       string `json:"resumeId,omitempty"`
	ResumeText     string `json:"resumeText,omitempty"`
	JobDescription string `json:"jobDescription"`
	TargetRole     string `json:"jobRole"`
}

// AnalyzeResult is a stored analysis.
type AnalyzeResult struct {
	AnalysisID string `json:"analysisId"`
	Analysis
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
