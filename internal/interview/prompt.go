package interview

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"
)

var categoryGuidance = map[Category]string{
	CategoryTechnical:    "Focus on coding patterns, algorithms, data structures, language-specific knowledge, and software engineering best practices. Ask about code quality, testing, and debugging approaches.",
	CategoryBehavioral:   "Use the STAR method (Situation, Task, Action, Result) to evaluate soft skills, leadership, collaboration, conflict resolution, and culture fit. Look for specific, quantifiable outcomes.",
	CategorySystemDesign: "Evaluate architecture decisions, scalability thinking, trade-off analysis, database selection, caching strategies, API design, and distributed systems knowledge. Ask candidates to explain their reasoning.",
	CategoryMixed:        "Alternate between technical questions, behavioral scenarios, and system design challenges based on the candidate's responses and the role requirements.",
}

var seniorityGuidance = map[Seniority]string{
	SeniorityJunior: "Ask foundational questions. Expect basic syntax knowledge, simple algorithms, CRUD operations, and entry-level system awareness. Be encouraging.",
	SeniorityMid:    "Ask intermediate questions. Expect solid understanding of patterns, moderate algorithm complexity, REST APIs, database design, and some architectural awareness.",
	SenioritySenior: "Ask advanced questions. Expect deep domain expertise, system thinking, trade-off analysis, performance optimization, and strong examples of leadership and mentorship.",
	SeniorityStaff:  "Ask staff-level questions covering org-wide technical strategy, cross-team coordination, complex distributed systems, mentorship at scale, and business impact.",
}

func guidanceFor(c Category, s Seniority) (string, string) {
	cg, ok := categoryGuidance[c]
	if !ok {
		cg = categoryGuidance[CategoryMixed]
	}
	sg, ok := seniorityGuidance[s]
	if !ok {
		sg = seniorityGuidance[SeniorityMid]
	}
	return cg, sg
}

const evaluationSystemPrompt = `You are a rigorous but fair technical interviewer at a top-tier tech company.

Evaluation rules:
1. Score the answer strictly for the interview type and seniority level.
2. If the candidate used a hint, the maximum possible score is 75.
3. Pick the next question: go harder if the score is above 80, stay at the same level for 60-80, go easier below 60.
4. Set isInterviewOver to true ONLY if the question number is at least the maximum number of questions.
5. Keep follow-up questions on the focus topics when they are given.
6. BEHAVIORAL: check for the STAR method and deduct points if it is missing.
7. TECHNICAL: check for time/space complexity awareness on algorithm questions.
8. SYSTEM_DESIGN: check that scalability, failure modes, and trade-offs were considered.`

var evaluationUserTemplate = template.Must(template.New("evaluation").Parse(`Role: {{.Role}}
Interview type: {{.Category}}
  Guidance: {{.CategoryGuidance}}
Seniority: {{.Seniority}}
  Guidance: {{.SeniorityGuidance}}
Focus topics: {{.FocusTopics}}
Question progress: {{.QuestionIndex}} of {{.MaxQuestions}}
Hint used: {{if .HintUsed}}YES (cap score at 75){{else}}NO{{end}}

Recent conversation:
{{.History}}

Current question:
"{{.Question}}"

Candidate's answer:
"{{.Answer}}"`))

type evaluationPromptData struct {
	EvalConfig
	CategoryGuidance  string
	SeniorityGuidance string
	History           string
	Question          string
	Answer            string
}

func buildEvaluationMessage(question, answer string, history []string, cfg EvalConfig, window int) (string, error) {
	cg, sg := guidanceFor(cfg.Category, cfg.Seniority)
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	hist := strings.Join(history, "\n")
	if hist == "" {
		hist = "No prior history."
	}
	if cfg.FocusTopics == "" {
		cfg.FocusTopics = "General topics relevant to the role"
	}

	var buf bytes.Buffer
	err := evaluationUserTemplate.Execute(&buf, evaluationPromptData{
		EvalConfig:        cfg,
		CategoryGuidance:  cg,
		SeniorityGuidance: sg,
		History:           hist,
		Question:          question,
		Answer:            answer,
	})
	return buf.String(), err
}

var hintSystemTemplate = template.Must(template.New("hint").Parse(`You are a supportive interview coach for a {{.Seniority}} {{.Category}} interview for the role of {{.Role}}.

Give a subtle, guiding hint that points toward the right concept, framework, or structure WITHOUT giving away the answer.
- Calibrate for {{.Seniority}} level; do not over-hint for senior roles.
- TECHNICAL: hint at the algorithm pattern or data structure to use.
- BEHAVIORAL: remind them of the STAR structure.
- SYSTEM_DESIGN: suggest a starting point, such as the core entities.
- Stay under 60 words.`))

func buildHintSystem(cfg HintConfig) (string, error) {
	var buf bytes.Buffer
	err := hintSystemTemplate.Execute(&buf, cfg)
	return buf.String(), err
}

var reportSystemTemplate = template.Must(template.New("report").Parse(`You are a senior hiring manager reviewing a completed {{.Category}} interview for the role of {{.Role}} ({{.Seniority}} level).

Write an honest, actionable final report based entirely on the transcript. Cite specific examples where possible.

Hiring suggestion guide:
- "Strong Hire": average >= 85 with consistent depth
- "Hire": average 70-84 with solid fundamentals
- "No Hire": average 50-69 with notable gaps
- "Strong No Hire": average < 50 or critical knowledge missing`))

var reportUserTemplate = template.Must(template.New("report-user").Parse(`Full interview transcript:
{{.Transcript}}

Scores per question: {{.Scores}}
Average score: {{.Average}}/100
Total questions: {{.Total}}`))

type reportPromptData struct {
	Transcript string
	Scores     string
	Average    int
	Total      int
}

func buildReportPrompt(transcript []string, scores []int, avg int, cfg ReportConfig) (system, user string, err error) {
	var sys bytes.Buffer
	if err := reportSystemTemplate.Execute(&sys, cfg); err != nil {
		return "", "", err
	}

	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = strconv.Itoa(s)
	}
	var usr bytes.Buffer
	err = reportUserTemplate.Execute(&usr, reportPromptData{
		Transcript: strings.Join(transcript, "\n"),
		Scores:     strings.Join(parts, ", "),
		Average:    avg,
		Total:      len(scores),
	})
	return sys.String(), usr.String(), err
}
