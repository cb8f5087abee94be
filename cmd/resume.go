package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/resume"
	"github.com/abhisek/careerpilot/internal/ui/theme"
	"github.com/abhisek/careerpilot/internal/ui/views"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Parse resumes and compare them against job descriptions",
}

func resumeService(cmd *cobra.Command, a *appContext) (*resume.Service, error) {
	provider, err := a.provider(cmd)
	if err != nil {
		return nil, err
	}
	blobs, err := a.blobs(cmd)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}
	return resume.New(provider, blobs, a.store.ResumeRepo(), a.publisher(), resume.DefaultConfig()), nil
}

func uploadFile(cmd *cobra.Command, svc *resume.Service, path string) (*resume.UploadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return svc.Upload(cmd.Context(), resume.UploadInput{
		UserID:   userFlag(cmd),
		FileName: filepath.Base(path),
		Data:     data,
	})
}

var resumeParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Upload a PDF, DOCX or text resume and show the parsed profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := resumeService(cmd, a)
		if err != nil {
			return err
		}
		res, err := uploadFile(cmd, svc, args[0])
		if err != nil {
			return err
		}

		out := stdout(cmd)
		fmt.Fprintln(out, theme.Subtitle.Render("Resume "+res.ResumeID))
		fmt.Fprintln(out, views.Profile(res.Profile))
		return nil
	},
}

var resumeAnalyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Compare a resume with a job description",
	Long:  "Analyzes the given resume file, or a stored one with --resume-id, against the job description in --jd.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jdPath, _ := cmd.Flags().GetString("jd")
		role, _ := cmd.Flags().GetString("role")
		resumeID, _ := cmd.Flags().GetString("resume-id")
		if len(args) == 0 && resumeID == "" {
			return fmt.Errorf("either a resume file or --resume-id is required")
		}
		jd, err := os.ReadFile(jdPath)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := resumeService(cmd, a)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			up, err := uploadFile(cmd, svc, args[0])
			if err != nil {
				return err
			}
			resumeID = up.ResumeID
		}

		res, err := svc.Analyze(cmd.Context(), resume.AnalyzeRequest{
			UserID:         userFlag(cmd),
			ResumeID:       resumeID,
			JobDescription: string(jd),
			TargetRole:     role,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout(cmd), views.Analysis(res.Analysis, termWidth()))
		return nil
	},
}

var resumeHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		items, err := a.store.ResumeRepo().ListAnalyses(cmd.Context(), userFlag(cmd), limit)
		if err != nil {
			return fmt.Errorf("list analyses: %w", err)
		}
		fmt.Fprintln(stdout(cmd), views.AnalysisHistory(items))
		return nil
	},
}

func init() {
	resumeAnalyzeCmd.Flags().String("jd", "", "File with the job description")
	resumeAnalyzeCmd.Flags().String("role", "", "Target job role")
	resumeAnalyzeCmd.Flags().String("resume-id", "", "Analyze a previously uploaded resume")
	_ = resumeAnalyzeCmd.MarkFlagRequired("jd")
	resumeHistoryCmd.Flags().IntP("limit", "n", 20, "Number of analyses to show")

	resumeCmd.AddCommand(resumeParseCmd)
	resumeCmd.AddCommand(resumeAnalyzeCmd)
	resumeCmd.AddCommand(resumeHistoryCmd)
}
