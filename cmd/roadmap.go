package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/roadmap"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate and browse learning roadmaps",
}

var roadmapGenerateCmd = &cobra.Command{
	Use:   "generate <goal>",
	Short: "Generate a roadmap for a learning goal, e.g. \"Learn Rust in 2 weeks\"",
	Args:  cobra.MinimumNArgs(1),
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
		p := roadmap.New(provider, a.searcher(), a.store.RoadmapRepo(), a.publisher(), a.roadmapConfig())

		res, err := p.Generate(cmd.Context(), roadmap.GenerateInput{
			Goal:   strings.Join(args, " "),
			UserID: userFlag(cmd),
		})
		if err != nil {
			return fmt.Errorf("generate roadmap: %w", err)
		}

		out := stdout(cmd)
		if res.FallbackPlan {
			fmt.Fprintln(out, theme.Hint.Render("Planner unavailable, using a generic plan."))
		}
		fmt.Fprintln(out, views.Roadmap(res.Roadmap, termWidth()))
		return nil
	},
}

var roadmapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your roadmaps with completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.progressService().RoadmapsWithProgress(cmd.Context(), userFlag(cmd))
		if err != nil {
			return fmt.Errorf("list roadmaps: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.RoadmapList(items, termWidth()))
		return nil
	},
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show <roadmap-id>",
	Short: "Show a roadmap with resources and quizzes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		rm, err := a.store.RoadmapRepo().GetRoadmap(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get roadmap: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.Roadmap(rm, termWidth()))
		return nil
	},
}

func init() {
	roadmapCmd.AddCommand(roadmapGenerateCmd)
	roadmapCmd.AddCommand(roadmapListCmd)
	roadmapCmd.AddCommand(roadmapShowCmd)
}
