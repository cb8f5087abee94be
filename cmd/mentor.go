package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/mentor"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

// mentorAsker is the part of mentor.Service the command drives.
type mentorAsker interface {
	Ask(ctx context.Context, req mentor.Request) (*mentor.Reply, error)
}

var mentorCmd = &cobra.Command{
	Use:   "mentor [question]",
	Short: "Study a topic with an AI mentor",
	Long: "Asks the mentor about --topic. In teach mode a question argument gets one " +
		"answer; without it every input line is a follow-up until /quit. Explain mode " +
		"writes a structured overview and quiz mode asks one multiple-choice question.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		provider, err := a.provider(cmd)
		if err != nil {
			return err
		}
		mode, _ := cmd.Flags().GetString("mode")
		topic, _ := cmd.Flags().GetString("topic")
		req := mentor.Request{UserID: userFlag(cmd), Mode: mode, Topic: topic}
		return runMentor(cmd, mentor.New(provider, mentor.DefaultConfig()), req, strings.Join(args, " "))
	},
}

func runMentor(cmd *cobra.Command, m mentorAsker, req mentor.Request, question string) error {
	mode, err := mentor.ParseMode(req.Mode)
	if err != nil {
		return err
	}
	req.Mode = string(mode)
	out := stdout(cmd)
	in := bufio.NewScanner(cmd.InOrStdin())

	switch {
	case mode == mentor.ModeQuiz:
		reply, err := m.Ask(cmd.Context(), req)
		if err != nil {
			return err
		}
		return answerQuiz(out, in, reply)
	case mode == mentor.ModeExplain:
		reply, err := m.Ask(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, views.MentorReply(reply, false, termWidth()))
		return nil
	case question != "":
		req.Message = question
		reply, err := m.Ask(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, views.MentorReply(reply, false, termWidth()))
		return nil
	}

	fmt.Fprintln(out, theme.Subtitle.Render("Ask about "+req.Topic+". Type /quit to stop."))
	for {
		fmt.Fprint(out, theme.Hint.Render("> "))
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		}

		req.Message = line
		reply, err := m.Ask(cmd.Context(), req)
		if err != nil {
			if apperr.IsDelegate(err) {
				fmt.Fprintln(out, theme.Incorrect.Render("Mentor unavailable, ask again."))
				continue
			}
			return err
		}
		fmt.Fprintln(out, views.MentorReply(reply, false, termWidth()))
		req.History = append(req.History,
			mentor.Message{Role: mentor.SpeakerUser, Text: line},
			mentor.Message{Role: mentor.SpeakerMentor, Text: reply.Content})
	}
}

// answerQuiz shows the question, reads one letter and reveals the answer.
func answerQuiz(out io.Writer, in *bufio.Scanner, reply *mentor.Reply) error {
	fmt.Fprintln(out, views.MentorReply(reply, false, termWidth()))
	fmt.Fprint(out, theme.Hint.Render("Answer (A-D): "))
	if in.Scan() {
		choice := strings.ToUpper(strings.TrimSpace(in.Text()))
		if len(choice) == 1 && choice[0] >= 'A' && int(choice[0]-'A') < len(reply.Quiz.Options) {
			if int(choice[0]-'A') == reply.Quiz.CorrectIndex {
				fmt.Fprintln(out, theme.Correct.Render("Correct!"))
			} else {
				fmt.Fprintln(out, theme.Incorrect.Render("Not quite."))
			}
		}
	}
	fmt.Fprintln(out, views.MentorReply(reply, true, termWidth()))
	return in.Err()
}

func init() {
	mentorCmd.Flags().String("topic", "", "Topic or milestone to study")
	mentorCmd.Flags().String("mode", "teach", "teach, explain or quiz")
	_ = mentorCmd.MarkFlagRequired("topic")
}
