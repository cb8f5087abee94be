package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/blob"
	"github.com/abhisek/careerpilot/internal/config"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/progress"
	"github.com/abhisek/careerpilot/internal/roadmap"
	"github.com/abhisek/careerpilot/internal/search"
	"github.com/abhisek/careerpilot/internal/store"
)

// appContext holds what every command shares: configuration and the open
// store. Optional collaborators are built on demand.
type appContext struct {
	cfg     *config.Config
	store   *store.Store
	pub     events.Publisher
	closers []func() error
}

// openApp loads configuration, sets up logging and opens the database.
// quiet keeps logx stat lines out of interactive output.
func openApp(cmd *cobra.Command, quiet bool) (*appContext, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if cfg.Database.Driver == "" || cfg.Database.Driver == store.DriverSQLite {
			if err := store.EnsureDir(p); err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
		}
		cfg.Database.DSN = p
	}
	if err := cfg.SetupLogging(quiet); err != nil {
		return nil, err
	}

	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(cmd.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &appContext{cfg: cfg, store: st}, nil
}

// Close releases everything opened through the context, newest first.
func (a *appContext) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logx.Errorf("close: %v", err)
		}
	}
	if err := a.store.Close(); err != nil {
		logx.Errorf("close store: %v", err)
	}
}

// provider builds the configured LLM provider with request logging into
// the event table.
func (a *appContext) provider(cmd *cobra.Command) (llm.Provider, error) {
	if err := a.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return llm.NewProvider(cmd.Context(), a.cfg.LLM, a.store.EventRepo())
}

// searcher returns Tavily when a key is configured. Without one roadmaps
// get docs-search fallback links.
func (a *appContext) searcher() search.Searcher {
	if a.cfg.Search.APIKey == "" {
		logx.Info("search API key not set, roadmap resources fall back to docs search links")
		return search.Nop{}
	}
	c, err := search.NewTavilyClient(a.cfg.Search)
	if err != nil {
		logx.Errorf("search client: %v", err)
		return search.Nop{}
	}
	return c
}

// publisher connects to the broker when configured. A failed dial is
// logged and events are dropped.
func (a *appContext) publisher() events.Publisher {
	if a.pub != nil {
		return a.pub
	}
	a.pub = events.NopPublisher{}
	if a.cfg.Events.URL == "" {
		return a.pub
	}
	p, err := events.NewAMQPPublisher(a.cfg.Events)
	if err != nil {
		logx.Errorf("event publisher unavailable: %v", err)
		return a.pub
	}
	a.closers = append(a.closers, p.Close)
	a.pub = p
	return p
}

func (a *appContext) blobs(cmd *cobra.Command) (blob.Store, error) {
	return blob.New(cmd.Context(), a.cfg.Blob)
}

// stdout wraps the command's output so styles degrade to what the
// terminal supports.
func stdout(cmd *cobra.Command) io.Writer {
	return colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
}

// termWidth is the render width for the current terminal, or 0 when
// stdout is not a terminal.
func termWidth() int {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return min(w, 100)
}

func (a *appContext) roadmapConfig() roadmap.Config {
	c := roadmap.DefaultConfig()
	if rc := a.cfg.Roadmap; rc.Concurrency > 0 {
		c.Concurrency = rc.Concurrency
	}
	if rc := a.cfg.Roadmap; rc.MilestoneCount > 0 {
		c.MilestoneCount = rc.MilestoneCount
	}
	if rc := a.cfg.Roadmap; rc.ResultsPerQuery > 0 {
		c.ResultsPerQuery = rc.ResultsPerQuery
	}
	return c
}

// progressService is shared by every command that reads or awards XP.
func (a *appContext) progressService() *progress.Service {
	return progress.NewService(progress.Deps{
		Progress: a.store.ProgressRepo(),
		Roadmaps: a.store.RoadmapRepo(),
		Events:   a.publisher(),
		Tx:       progress.StoreTx(a.store),
	})
}
