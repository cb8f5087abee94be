package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/progress"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track milestones, quizzes and daily goals",
}

// progressAction opens the app, runs fn against the progress service and
// prints the XP outcome.
func progressAction(fn func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		msg, o, err := fn(cmd, a.progressService(), args)
		if err != nil {
			return err
		}
		out := stdout(cmd)
		if msg != "" {
			fmt.Fprintln(out, msg)
		}
		fmt.Fprintln(out, views.Outcome(o))
		return nil
	}
}

var progressStartCmd = &cobra.Command{
	Use:   "start <milestone-id>",
	Short: "Start working on a milestone",
	Args:  cobra.ExactArgs(1),
	RunE: progressAction(func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error) {
		r, err := svc.StartMilestone(cmd.Context(), userFlag(cmd), args[0])
		if err != nil {
			return "", progress.Outcome{}, err
		}
		return theme.Body.Render("Milestone " + r.Status), r.Outcome, nil
	}),
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete <milestone-id>",
	Short: "Mark a started milestone as completed",
	Args:  cobra.ExactArgs(1),
	RunE: progressAction(func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error) {
		r, err := svc.CompleteMilestone(cmd.Context(), userFlag(cmd), args[0])
		if err != nil {
			return "", progress.Outcome{}, err
		}
		msg := theme.Body.Render(fmt.Sprintf("Completed in %d min", r.TimeSpentMins))
		if r.RoadmapCompleted {
			msg += "\n" + theme.Correct.Render("Roadmap complete!")
		}
		return msg, r.Outcome, nil
	}),
}

var progressQuizCmd = &cobra.Command{
	Use:   "quiz <quiz-id> <option-index>",
	Short: "Answer a quiz question (options are 0-based)",
	Args:  cobra.ExactArgs(2),
	RunE: progressAction(func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error) {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return "", progress.Outcome{}, fmt.Errorf("invalid option index %q: %w", args[1], err)
		}
		r, err := svc.SubmitQuiz(cmd.Context(), userFlag(cmd), args[0], idx)
		if err != nil {
			return "", progress.Outcome{}, err
		}
		msg := theme.Incorrect.Render(fmt.Sprintf("Incorrect, the answer was option %d.", r.CorrectIndex))
		if r.Correct {
			msg = theme.Correct.Render("Correct!")
		}
		if r.Explanation != "" {
			msg += "\n" + theme.Hint.Render(r.Explanation)
		}
		return msg, r.Outcome, nil
	}),
}

var progressViewCmd = &cobra.Command{
	Use:   "view <resource-id>",
	Short: "Record that you opened a learning resource",
	Args:  cobra.ExactArgs(1),
	RunE: progressAction(func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error) {
		r, err := svc.MarkResourceViewed(cmd.Context(), userFlag(cmd), args[0])
		if err != nil {
			return "", progress.Outcome{}, err
		}
		if !r.FirstView {
			return theme.Hint.Render("Already viewed."), r.Outcome, nil
		}
		return "", r.Outcome, nil
	}),
}

var progressDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Log study minutes and solved quizzes for today",
	RunE: progressAction(func(cmd *cobra.Command, svc *progress.Service, args []string) (string, progress.Outcome, error) {
		mins, _ := cmd.Flags().GetInt("mins")
		quizzes, _ := cmd.Flags().GetInt("quizzes")
		r, err := svc.UpdateDailyProgress(cmd.Context(), userFlag(cmd), mins, quizzes)
		if err != nil {
			return "", progress.Outcome{}, err
		}
		g := r.Goal
		msg := theme.Body.Render(fmt.Sprintf("Today %d%%: %d/%d min, %d/%d quizzes",
			g.Progress, g.MinsCompleted, g.TargetMins, g.QuizzesSolved, g.TargetQuizzes))
		return msg, r.Outcome, nil
	}),
}

var progressStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, streaks, achievements and today's goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.progressService().Stats(cmd.Context(), userFlag(cmd))
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.Stats(s, termWidth()))
		return nil
	},
}

var progressLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the XP leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		rows, err := a.progressService().Leaderboard(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.Leaderboard(rows))
		return nil
	},
}

func init() {
	progressDailyCmd.Flags().Int("mins", 0, "Minutes studied")
	progressDailyCmd.Flags().Int("quizzes", 0, "Quizzes solved")
	progressLeaderboardCmd.Flags().IntP("limit", "n", progress.DefaultLeaderboardLimit, "Number of rows")

	progressCmd.AddCommand(progressStartCmd)
	progressCmd.AddCommand(progressCompleteCmd)
	progressCmd.AddCommand(progressQuizCmd)
	progressCmd.AddCommand(progressViewCmd)
	progressCmd.AddCommand(progressDailyCmd)
	progressCmd.AddCommand(progressStatsCmd)
	progressCmd.AddCommand(progressLeaderboardCmd)
}
