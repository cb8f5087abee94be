// Package views renders service results for the terminal.
package views

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/mentor"
	"github.com/abhisek/careerpilot/internal/progress"
	"github.com/abhisek/careerpilot/internal/resume"
	"github.com/abhisek/careerpilot/internal/store"
	"github.com/abhisek/careerpilot/internal/ui/components"
	"github.com/abhisek/careerpilot/internal/ui/layout"
	"github.com/abhisek/careerpilot/internal/ui/theme"
)

// Roadmap renders a roadmap with its milestones, resources and quiz counts.
func Roadmap(rm *store.Roadmap, width int) string {
	width = layout.ClampWidth(width)

	head := theme.Title.Render(rm.Title)
	sub := []string{theme.Subtitle.Render("Goal: " + rm.Goal)}
	if rm.TimeBoxValue > 0 {
		tb := fmt.Sprintf("Time box: %d %s", rm.TimeBoxValue, rm.TimeBoxUnit)
		if rm.IsIntensive {
			tb += " (intensive)"
		}
		sub = append(sub, theme.Subtitle.Render(tb))
	}
	if rm.IsCompleted {
		sub = append(sub, theme.Correct.Render("Completed"))
	}

	blocks := []string{head + "\n" + strings.Join(sub, "\n")}
	for _, m := range rm.Milestones {
		blocks = append(blocks, milestone(m, width))
	}
	return layout.Stack(blocks...)
}

func milestone(m store.Milestone, width int) string {
	title := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%d. %s", m.Position+1, m.Title))
	meta := theme.Hint.Render(fmt.Sprintf("%s · %d %s · ~%dh · %s",
		m.Difficulty, m.Duration, m.DurationUnit, m.EstimatedHours, m.ID))

	lines := []string{title, meta}
	if m.Description != "" {
		lines = append(lines, theme.Body.Render(m.Description))
	}
	if len(m.Resources) > 0 {
		items := make([]string, 0, len(m.Resources))
		for _, r := range m.Resources {
			items = append(items, fmt.Sprintf("[%s] %s  %s", r.Type, r.Title, r.URL))
		}
		lines = append(lines, components.Bullets(items))
	}
	if n := len(m.Quizzes); n > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d quiz question(s)", n)))
	}
	return theme.Card.Width(width).Render(strings.Join(lines, "\n"))
}

// RoadmapList renders a user's roadmaps with completion bars.
func RoadmapList(items []progress.RoadmapProgress, width int) string {
	if len(items) == 0 {
		return theme.Hint.Render("No roadmaps yet.")
	}
	width = layout.ClampWidth(width)
	lines := make([]string, 0, len(items)*2)
	for _, it := range items {
		lines = append(lines,
			theme.Body.Bold(true).Render(it.Title)+"  "+theme.Hint.Render(it.ID),
			components.NewProgressBar(fmt.Sprintf("%d/%d", it.Completed, it.Total), it.Percent, true, width).View(),
		)
	}
	return strings.Join(lines, "\n")
}

// Stats renders the gamification dashboard.
func Stats(s *progress.StatsView, width int) string {
	width = layout.ClampWidth(width)
	header := layout.RenderHeader("Progress", s.Level, s.TotalXP, s.CurrentStreak, width)

	fields := layout.RenderFields([]layout.Field{
		{Label: "XP to next level", Value: strconv.Itoa(s.XPToNextLevel)},
		{Label: "Longest streak", Value: fmt.Sprintf("%d days", s.LongestStreak)},
		{Label: "Milestones", Value: strconv.Itoa(s.MilestonesCompleted)},
		{Label: "Quizzes", Value: fmt.Sprintf("%d passed / %d taken", s.QuizzesPassed, s.QuizzesTaken)},
		{Label: "Time spent", Value: fmt.Sprintf("%d min", s.TotalTimeSpentMins)},
	})

	g := s.DailyGoal
	daily := components.NewProgressBar("Today", g.Progress, true, width).View() + "\n" +
		theme.Hint.Render(fmt.Sprintf("%d/%d min · %d/%d quizzes", g.MinsCompleted, g.TargetMins, g.QuizzesSolved, g.TargetQuizzes))
	if g.IsCompleted {
		daily += "  " + theme.Correct.Render("goal met")
	}

	var badges string
	if len(s.Achievements) > 0 {
		items := make([]string, 0, len(s.Achievements))
		for _, a := range s.Achievements {
			items = append(items, fmt.Sprintf("%s %s  %s", a.Icon, a.Name, theme.Hint.Render(a.Description)))
		}
		badges = layout.RenderSection("Achievements", components.Bullets(items))
	}

	return layout.Stack(header, fields, layout.RenderSection("Daily goal", daily), badges)
}

// Outcome renders the XP summary of a progress write.
func Outcome(o progress.Outcome) string {
	line := theme.XP.Render(fmt.Sprintf("+%d XP", o.XPGained)) +
		theme.Subtitle.Render(fmt.Sprintf("  total %d · level %d · streak %d", o.TotalXP, o.Level, o.Streak))
	for _, a := range o.Achievements {
		line += "\n" + theme.Correct.Render(fmt.Sprintf("Unlocked %s %s", a.Icon, a.Name))
	}
	return line
}

// Leaderboard renders ranked users.
func Leaderboard(entries []store.LeaderboardEntry) string {
	if len(entries) == 0 {
		return theme.Hint.Render("Leaderboard is empty.")
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		name := e.FullName
		if name == "" {
			name = e.UserID
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), name,
			strconv.Itoa(e.TotalXP), strconv.Itoa(e.Level), strconv.Itoa(e.CurrentStreak),
		})
	}
	return components.Table([]string{"#", "User", "XP", "Level", "Streak"}, rows)
}

// TurnResult renders the evaluation of one answer.
func TurnResult(r *interview.TurnResult, width int) string {
	width = layout.ClampWidth(width)
	score := theme.ScoreColor(r.Score).Render(fmt.Sprintf("%d/100", r.Score))
	head := theme.Label.Render(fmt.Sprintf("Question %d", r.QuestionIndex)) + "  " + score

	body := []string{head, theme.Body.Render(r.Feedback)}
	if r.BetterAnswer != "" {
		body = append(body, theme.Hint.Render("Stronger answer: "+r.BetterAnswer))
	}
	if len(r.TopicsCovered) > 0 {
		body = append(body, theme.Subtitle.Render("Topics: "+strings.Join(r.TopicsCovered, ", ")))
	}
	out := theme.Card.Width(width).Render(strings.Join(body, "\n"))

	if r.FinalReport != nil {
		return layout.Stack(out, Report(r.FinalReport, width))
	}
	if r.NextQuestion != "" {
		out = layout.Stack(out, theme.Title.Render("Next: ")+theme.Body.Render(r.NextQuestion))
	}
	return out
}

// Report renders the final interview report.
func Report(rep *interview.Report, width int) string {
	width = layout.ClampWidth(width)
	head := theme.Title.Render("Interview report") + "  " +
		theme.ScoreColor(rep.OverallScore).Render(fmt.Sprintf("%d/100", rep.OverallScore)) + "  " +
		theme.XP.Render(string(rep.HiringSuggestion))

	blocks := []string{head}
	if len(rep.TopicBreakdown) > 0 {
		rows := make([][]string, 0, len(rep.TopicBreakdown))
		for _, t := range rep.TopicBreakdown {
			rows = append(rows, []string{t.Topic, strconv.Itoa(t.Score)})
		}
		blocks = append(blocks, components.Table([]string{"Topic", "Score"}, rows))
	}
	if len(rep.Strengths) > 0 {
		blocks = append(blocks, layout.RenderSection("Strengths", components.Bullets(rep.Strengths)))
	}
	if len(rep.Weaknesses) > 0 {
		blocks = append(blocks, layout.RenderSection("Weaknesses", components.Bullets(rep.Weaknesses)))
	}
	if rep.Recommendation != "" {
		blocks = append(blocks, layout.RenderSection("Recommendation",
			theme.Body.Width(width).Render(rep.Recommendation)))
	}
	if len(rep.NextSteps) > 0 {
		blocks = append(blocks, layout.RenderSection("Next steps", components.Bullets(rep.NextSteps)))
	}
	return theme.Highlight.Width(width).Render(layout.Stack(blocks...))
}

// Session renders a stored interview transcript.
func Session(v *interview.SessionView, width int) string {
	s := v.Session
	head := theme.Title.Render(fmt.Sprintf("%s · %s · %s", s.Role, s.Category, s.Seniority)) + "\n" +
		theme.Hint.Render(fmt.Sprintf("%s · %s · %d/%d answered", s.ID, s.Status, s.QuestionIndex, s.MaxQuestions))

	lines := make([]string, 0, len(v.Turns))
	for _, t := range v.Turns {
		who := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("You")
		if t.Author == store.AuthorAI {
			who = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("AI ")
		}
		line := who + "  " + theme.Body.Render(t.Content)
		if t.Metrics != nil && t.Metrics.Score != nil {
			line += "  " + theme.ScoreColor(*t.Metrics.Score).Render(fmt.Sprintf("[%d]", *t.Metrics.Score))
		}
		lines = append(lines, line)
	}

	blocks := []string{head, strings.Join(lines, "\n")}
	if v.Report != nil {
		blocks = append(blocks, Report(v.Report, width))
	}
	return layout.Stack(blocks...)
}

// Profile renders a parsed resume.
func Profile(p resume.Profile) string {
	var fields []layout.Field
	if p.FullName != "" {
		fields = append(fields, layout.Field{Label: "Name", Value: p.FullName})
	}
	if p.Email != "" {
		fields = append(fields, layout.Field{Label: "Email", Value: p.Email})
	}
	blocks := []string{layout.RenderFields(fields)}
	if p.Summary != "" {
		blocks = append(blocks, theme.Body.Render(p.Summary))
	}

	if len(p.Skills) > 0 {
		names := make([]string, 0, len(p.Skills))
		for _, s := range p.Skills {
			names = append(names, s.Name)
		}
		blocks = append(blocks, layout.RenderSection("Skills", theme.Body.Render(strings.Join(names, ", "))))
	}
	if len(p.Experience) > 0 {
		items := make([]string, 0, len(p.Experience))
		for _, e := range p.Experience {
			items = append(items, strings.TrimSpace(fmt.Sprintf("%s at %s %s", e.Role, e.Company, e.Duration)))
		}
		blocks = append(blocks, layout.RenderSection("Experience", components.Bullets(items)))
	}
	if len(p.Projects) > 0 {
		items := make([]string, 0, len(p.Projects))
		for _, pr := range p.Projects {
			items = append(items, fmt.Sprintf("%s (%s)", pr.Title, strings.Join(pr.TechStack, ", ")))
		}
		blocks = append(blocks, layout.RenderSection("Projects", components.Bullets(items)))
	}
	if len(p.Education) > 0 {
		items := make([]string, 0, len(p.Education))
		for _, e := range p.Education {
			items = append(items, strings.TrimSpace(fmt.Sprintf("%s, %s %s", e.Degree, e.Institution, e.Year)))
		}
		blocks = append(blocks, layout.RenderSection("Education", components.Bullets(items)))
	}
	return layout.Stack(blocks...)
}

// Analysis renders a resume gap analysis.
func Analysis(a resume.Analysis, width int) string {
	width = layout.ClampWidth(width)
	head := theme.Title.Render("Match") + "  " +
		theme.ScoreColor(a.MatchScore).Render(fmt.Sprintf("%d/100", a.MatchScore)) + "  " +
		theme.Subtitle.Render(string(a.Status))

	blocks := []string{
		head + "\n" + components.NewProgressBar("", a.MatchScore, false, width).View(),
		theme.Body.Width(width).Render(a.Summary),
	}
	if len(a.TopMissingSkills) > 0 {
		blocks = append(blocks, layout.RenderSection("Missing skills", components.Bullets(a.TopMissingSkills)))
	}
	if a.RecommendedStack != "" {
		blocks = append(blocks, layout.RenderSection("Recommended stack", theme.Body.Render(a.RecommendedStack)))
	}
	if len(a.Roadmap) > 0 {
		weeks := make([]string, 0, len(a.Roadmap))
		for _, w := range a.Roadmap {
			weeks = append(weeks, theme.Label.Render(w.Week+": ")+theme.Body.Render(w.Focus)+"\n"+components.Bullets(w.Tasks))
		}
		blocks = append(blocks, layout.RenderSection("Plan", strings.Join(weeks, "\n")))
	}
	if len(a.ATSFixes) > 0 {
		fixes := make([]string, 0, len(a.ATSFixes))
		for _, f := range a.ATSFixes {
			fixes = append(fixes, theme.Incorrect.Render("- "+f.Original)+"\n"+
				theme.Correct.Render("+ "+f.Improved)+"\n"+theme.Hint.Render(f.Reason))
		}
		blocks = append(blocks, layout.RenderSection("ATS fixes", strings.Join(fixes, "\n\n")))
	}
	if a.ProjectIdea != "" {
		blocks = append(blocks, layout.RenderSection("Project idea", theme.Body.Width(width).Render(a.ProjectIdea)))
	}
	if a.InterviewPrep != "" {
		blocks = append(blocks, layout.RenderSection("Interview prep", theme.Body.Width(width).Render(a.InterviewPrep)))
	}
	return layout.Stack(blocks...)
}

// AnalysisHistory renders stored analyses as a table.
func AnalysisHistory(items []store.Analysis) string {
	if len(items) == 0 {
		return theme.Hint.Render("No analyses yet.")
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		role := a.TargetRole
		if role == "" {
			role = "-"
		}
		rows = append(rows, []string{
			a.CreatedAt.Local().Format("2006-01-02 15:04"), role,
			strconv.Itoa(a.MatchScore), a.Status, a.ID,
		})
	}
	return components.Table([]string{"When", "Role", "Score", "Status", "ID"}, rows)
}

// MentorReply renders a mentor answer, or a quiz with its options
// lettered A-D. The answer is shown only when reveal is set.
func MentorReply(r *mentor.Reply, reveal bool, width int) string {
	width = layout.ClampWidth(width)
	if r.Quiz == nil {
		return theme.Body.Width(width).Render(r.Content)
	}

	q := r.Quiz
	lines := []string{theme.Title.Render(q.Question)}
	for i, opt := range q.Options {
		line := fmt.Sprintf("%c) %s", 'A'+i, opt)
		if reveal && i == q.CorrectIndex {
			line = theme.Correct.Render(line)
		}
		lines = append(lines, line)
	}
	if reveal && q.Explanation != "" {
		lines = append(lines, theme.Hint.Render(q.Explanation))
	}
	return theme.Card.Width(width).Render(strings.Join(lines, "\n"))
}
