package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/interview"
	"github.com/abhisek/careerpilot/internal/mentor"
	"github.com/abhisek/careerpilot/internal/resume"
	"github.com/abhisek/careerpilot/internal/roadmap"
	"github.com/abhisek/careerpilot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.Server.Addr()
		}
		return serve(cmd, a, addr)
	},
}

func serve(cmd *cobra.Command, a *appContext, addr string) error {
	provider, err := a.provider(cmd)
	if err != nil {
		return err
	}
	blobs, err := a.blobs(cmd)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	pub := a.publisher()

	svc := server.Services{
		Interview: interview.New(provider, a.store.InterviewRepo(), pub, interview.DefaultConfig()),
		Roadmaps:  roadmap.New(provider, a.searcher(), a.store.RoadmapRepo(), pub, a.roadmapConfig()),
		Progress:  a.progressService(),
		Resumes:   resume.New(provider, blobs, a.store.ResumeRepo(), pub, resume.DefaultConfig()),
		Mentor:    mentor.New(provider, mentor.DefaultConfig()),
	}

	if a.cfg.Server.JWTSecret == "" {
		logx.Info("no JWT secret configured, API accepts X-User-Id without a token")
	}
	server.New(svc, server.Options{
		Addr:         addr,
		JWTSecret:    a.cfg.Server.JWTSecret,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		MaxBodyBytes: a.cfg.Server.MaxBodyBytes,
	}).Run()
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.Host/Port)")
}
