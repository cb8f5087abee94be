package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/screens/practice"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Practice a mock interview in the terminal",
	Long: "Runs a full-screen interview in a terminal. Piped input is read one answer " +
		"per line. Type /hint for a hint on the current question or /quit to stop. " +
		"Review the session later with 'interview show'.",
	RunE: runInterview,
}

var interviewShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a stored interview transcript and report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		svc := interview.NewService(interview.Deps{Repo: a.store.InterviewRepo()}, interview.DefaultConfig())
		v, err := svc.GetSession(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.Session(v, termWidth()))
		return nil
	},
}

func runInterview(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	provider, err := a.provider(cmd)
	if err != nil {
		return err
	}
	svc := interview.New(provider, a.store.InterviewRepo(), a.publisher(), interview.DefaultConfig())

	role, _ := cmd.Flags().GetString("role")
	category, _ := cmd.Flags().GetString("category")
	seniority, _ := cmd.Flags().GetString("seniority")
	focus, _ := cmd.Flags().GetString("focus")
	maxQ, _ := cmd.Flags().GetInt("max")

	// Validate up front so a typo does not cost the first answer.
	if _, err := interview.ParseCategory(category); err != nil {
		return err
	}
	if _, err := interview.ParseSeniority(seniority); err != nil {
		return err
	}

	settings := practice.Settings{
		SessionID:     uuid.NewString(),
		UserID:        userFlag(cmd),
		Role:          role,
		Category:      category,
		Seniority:     seniority,
		FocusTopics:   focus,
		MaxQuestions:  maxQ,
		FirstQuestion: practice.FirstQuestion(role),
	}

	if in, ok := cmd.InOrStdin().(*os.File); ok && in == os.Stdin && term.IsTerminal(in.Fd()) {
		scr, err := practice.Run(cmd.Context(), svc, settings)
		if err != nil {
			return err
		}
		if !scr.Finished() {
			fmt.Fprintln(stdout(cmd), theme.Subtitle.Render("Stopped. Review with: careerpilot interview show "+settings.SessionID))
		}
		return nil
	}
	return runScriptedInterview(cmd, svc, settings)
}

// runScriptedInterview reads one answer per line, for piped input.
func runScriptedInterview(cmd *cobra.Command, coach practice.Coach, st practice.Settings) error {
	ctx := cmd.Context()
	out := stdout(cmd)
	width := termWidth()
	question := st.FirstQuestion
	index := 1

	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprintln(out, theme.Subtitle.Render("Session "+st.SessionID))
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Q%d. ", index))+theme.Body.Render(question))
		fmt.Fprint(out, theme.Hint.Render("> "))
		if !in.Scan() {
			return in.Err()
		}
		answer := strings.TrimSpace(in.Text())

		switch answer {
		case "":
			continue
		case "/quit":
			fmt.Fprintln(out, theme.Subtitle.Render("Stopped. Review with: careerpilot interview show "+st.SessionID))
			return nil
		case "/hint":
			h, err := coach.RequestHint(ctx, interview.HintInput{
				SessionID:       st.SessionID,
				UserID:          st.UserID,
				Role:            st.Role,
				Category:        st.Category,
				Seniority:       st.Seniority,
				FocusTopics:     st.FocusTopics,
				MaxQuestions:    st.MaxQuestions,
				CurrentQuestion: question,
				QuestionIndex:   index,
			})
			if err != nil {
				if apperr.IsDelegate(err) {
					fmt.Fprintln(out, theme.Incorrect.Render("Hint unavailable, try again."))
					continue
				}
				return err
			}
			fmt.Fprintln(out, theme.Hint.Render("Hint: "+h.Hint))
			continue
		}

		res, err := coach.SubmitTurn(ctx, interview.TurnInput{
			SessionID:       st.SessionID,
			UserID:          st.UserID,
			Role:            st.Role,
			Category:        st.Category,
			Seniority:       st.Seniority,
			FocusTopics:     st.FocusTopics,
			CurrentQuestion: question,
			UserAnswer:      answer,
			QuestionIndex:   index,
			MaxQuestions:    st.MaxQuestions,
		})
		if err != nil {
			if apperr.IsDelegate(err) {
				fmt.Fprintln(out, theme.Incorrect.Render("Evaluation failed, submit your answer again."))
				continue
			}
			return err
		}

		fmt.Fprintln(out, views.TurnResult(res, width))
		if res.FinalReport != nil {
			return nil
		}
		question = res.NextQuestion
		index = res.QuestionIndex + 1
	}
}

func init() {
	interviewCmd.Flags().String("role", interview.DefaultRole, "Target role")
	interviewCmd.Flags().String("category", string(interview.DefaultCategory), "TECHNICAL, BEHAVIORAL, SYSTEM_DESIGN or MIXED")
	interviewCmd.Flags().String("seniority", string(interview.DefaultSeniority), "JUNIOR, MID, SENIOR or STAFF")
	interviewCmd.Flags().String("focus", "", "Comma-separated topics to emphasize")
	interviewCmd.Flags().Int("max", interview.DefaultMaxQuestions, "Number of questions")

	interviewCmd.AddCommand(interviewShowCmd)
}
