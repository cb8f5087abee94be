package roadmap

import (
	"bytes"
	"text/template"
)

const planSystemPrompt = `You are a senior career architect who designs practical learning roadmaps.

Rules:
- Order milestones from fundamentals to advanced, each building on the previous one.
- Every milestone must end with something the learner can show: code, a demo, or a written summary.
- Titles are short and specific. Do not prefix them with "Module 1:" or "Week 2 -".
- When a time limit is given, the durations must add up to that limit and use its unit.
- Without a time limit, use weeks.`

var planUserTemplate = template.Must(template.New("plan").Parse(`Goal: {{.Goal}}
{{if .TimeBox}}Time limit: {{.TimeBox.Value}} {{.TimeBox.Unit}}{{if .TimeBox.IsIntensive}} (intensive: focus on the essentials only, no detours){{end}}
{{end}}Number of milestones: {{.Count}}`))

type planPromptData struct {
	Goal    string
	TimeBox *TimeBox
	Count   int
}

func buildPlanMessage(goal string, tb *TimeBox, count int) (string, error) {
	var buf bytes.Buffer
	if err := planUserTemplate.Execute(&buf, planPromptData{Goal: goal, TimeBox: tb, Count: count}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const quizSystemPrompt = `You write short multiple-choice checks for a learning roadmap.

Write exactly 2 questions for the milestone. Each has 4 options and exactly one correct option.
Test understanding and application, not trivia. Keep the explanation to one or two sentences.`

var quizUserTemplate = template.Must(template.New("quiz").Parse(`Learning goal: {{.Goal}}
Milestone: {{.Title}}
What it covers: {{.Description}}
Difficulty: {{.Difficulty}}`))

type quizPromptData struct {
	Goal        string
	Title       string
	Description string
	Difficulty  string
}

func buildQuizMessage(goal string, m PlannedMilestone) (string, error) {
	var buf bytes.Buffer
	err := quizUserTemplate.Execute(&buf, quizPromptData{
		Goal:        goal,
		Title:       m.Title,
		Description: m.Description,
		Difficulty:  m.Difficulty,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
