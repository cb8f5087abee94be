package resume

import (
	"bytes"
	"text/template"
)

const parseSystemPrompt = `You are an expert resume parser. Extract structured data from the resume text.

Data normalization:
1. Standardize skill names to their industry-standard form: "Go" becomes "Golang", "Reactjs" or "React.js" becomes "React", "Amazon Web Services" becomes "AWS".
2. Split glued words: "Docker,Kubernetes" becomes "Docker" and "Kubernetes".
3. Only list skills that are explicitly mentioned. Do not infer "Redis" just because "Node" is present.`

const analyzeSystemPrompt = `You are a principal software architect and career mentor. Respond with JSON only.

Your mission:
1. Gap analysis: strictly compare the resume against the job description. List every skill that is required but missing or weak.
2. Tech stack: recommend the exact stack needed for the role.
3. Mastery roadmap: a week-by-week plan focused only on the missing skills. Use 6-8 weeks for many gaps and 3-4 weeks for few. Be specific: "Week 1: Go syntax and goroutines", not "Learn Go".
4. ATS improvement: rewrite 2 weak resume bullet points with strong action verbs and metrics.
5. Project idea: one flagship project matching the role and the job's skills, complex enough to get hired.
6. Interview prep: one hard scenario-based question.`

var analyzeUserTemplate = template.Must(template.New("analyze").Parse(`Target role: {{.Role}}

Job description:
"""
{{.Job}}
"""

Resume:
"""
{{.Resume}}
"""`))

func buildParseMessage(text string) string {
	return "Resume text:\n\n" + text
}

func buildAnalyzeMessage(in AnalyzeInput, cfg Config) (string, error) {
	var buf bytes.Buffer
	err := analyzeUserTemplate.Execute(&buf, map[string]string{
		"Role":   in.TargetRole,
		"Job":    truncate(in.JobDescription, cfg.AnalysisJobChars),
		"Resume": truncate(in.ResumeText, cfg.AnalysisResumeChars),
	})
	return buf.String(), err
}
