// Package config loads careerpilot settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/blob"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/search"
	"github.com/abhisek/careerpilot/internal/store"
)

// EnvConfigPath names the env var that points at the YAML file.
const EnvConfigPath = "CAREERPILOT_CONFIG"

// DefaultPath is tried when neither the flag nor the env var is set.
const DefaultPath = "etc/careerpilot.yaml"

type Config struct {
	Log      logx.LogConf        `json:",optional"`
	Database DatabaseConfig      `json:",optional"`
	Server   ServerConfig        `json:",optional"`
	LLM      llm.Config          `json:",optional"`
	Search   search.TavilyConfig `json:",optional"`
	Events   events.AMQPConfig   `json:",optional"`
	Blob     blob.Config         `json:",optional"`
	Roadmap  RoadmapConfig       `json:",optional"`
}

type DatabaseConfig struct {
	Driver       string `json:",default=sqlite,options=[sqlite,postgres]"`
	DSN          string `json:",optional"`
	MaxOpenConns int    `json:",default=10"`
}

type ServerConfig struct {
	Host         string        `json:",default=0.0.0.0"`
	Port         int           `json:",default=8080,range=[1:65535]"`
	JWTSecret    string        `json:",optional"`
	ReadTimeout  time.Duration `json:",default=30s"`
	MaxBodyBytes int           `json:",default=10485760"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RoadmapConfig struct {
	Concurrency     int `json:",default=4"`
	MilestoneCount  int `json:",default=4"`
	ResultsPerQuery int `json:",default=2"`
}

// Load reads .env, then the YAML file picked by ResolvePath, then applies
// CAREERPILOT_* overrides. Without a file every field takes its default.
func Load(flagPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	if path := ResolvePath(flagPath); path != "" {
		if err := conf.Load(path, &c, conf.UseEnv()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else if err := conf.FillDefault(&c); err != nil {
		return nil, fmt.Errorf("fill config defaults: %w", err)
	}

	c.applyEnv()
	return &c, nil
}

// ResolvePath returns the first of flagPath, $CAREERPILOT_CONFIG and an
// existing DefaultPath, or "" when none applies.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Database.DSN, "CAREERPILOT_DB")
	set(&c.Database.Driver, "CAREERPILOT_DB_DRIVER")
	set(&c.Server.JWTSecret, "CAREERPILOT_JWT_SECRET")
	set(&c.Search.APIKey, "TAVILY_API_KEY")
	set(&c.Search.APIKey, "CAREERPILOT_TAVILY_API_KEY")
	set(&c.Events.URL, "CAREERPILOT_AMQP_URL")
	set(&c.Blob.Bucket, "CAREERPILOT_BLOB_BUCKET")
	set(&c.Blob.Endpoint, "CAREERPILOT_BLOB_ENDPOINT")
	set(&c.Blob.AccessKey, "CAREERPILOT_BLOB_ACCESS_KEY")
	set(&c.Blob.SecretKey, "CAREERPILOT_BLOB_SECRET_KEY")

	c.LLM = c.LLM.WithDefaults().ApplyEnv()
	if c.LLM.Validate() != nil {
		if found, ok := llm.DiscoverConfig(); ok {
			c.LLM = found.ApplyEnv()
		}
	}
}

// StoreOptions maps the database section to store options, resolving the
// default SQLite path when no DSN is configured.
func (c *Config) StoreOptions() (store.Options, error) {
	opts := store.Options{
		Driver:       c.Database.Driver,
		DSN:          c.Database.DSN,
		MaxOpenConns: c.Database.MaxOpenConns,
	}
	if opts.Driver == "" {
		opts.Driver = store.DriverSQLite
	}
	if opts.DSN == "" && opts.Driver == store.DriverSQLite {
		p, err := store.DefaultDBPath()
		if err != nil {
			return opts, err
		}
		opts.DSN = p
	}
	return opts, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "", store.DriverSQLite:
	case store.DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database: postgres requires a DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("database: unknown driver %q", c.Database.Driver))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	if c.Blob.Bucket != "" && (c.Blob.AccessKey == "") != (c.Blob.SecretKey == "") {
		errs = append(errs, errors.New("blob: access key and secret key must be set together"))
	}
	if c.Roadmap.Concurrency < 0 {
		errs = append(errs, errors.New("roadmap: concurrency must not be negative"))
	}
	return errors.Join(errs...)
}

// SetupLogging applies the log section. The CLI passes quiet=true to keep
// stat lines out of terminal output.
func (c *Config) SetupLogging(quiet bool) error {
	if err := logx.SetUp(c.Log); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if quiet {
		logx.DisableStat()
	}
	return nil
}
