package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does
// not leak into assertions.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		EnvConfigPath, "CAREERPILOT_DB", "CAREERPILOT_DB_DRIVER", "CAREERPILOT_JWT_SECRET",
		"TAVILY_API_KEY", "CAREERPILOT_TAVILY_API_KEY", "CAREERPILOT_AMQP_URL",
		"CAREERPILOT_BLOB_BUCKET", "CAREERPILOT_BLOB_ENDPOINT", "CAREERPILOT_BLOB_ACCESS_KEY", "CAREERPILOT_BLOB_SECRET_KEY",
		"CAREERPILOT_LLM_PROVIDER", "CAREERPILOT_GROQ_API_KEY", "CAREERPILOT_LLM_TIMEOUT",
		"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "careerpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", c.Server.Addr())
	assert.Equal(t, 4, c.Roadmap.Concurrency)
	assert.Equal(t, "groq", c.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", c.LLM.Groq.Model)
	assert.False(t, c.Blob.Enabled())
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_JWT_SECRET", "s3cret")

	path := writeConfig(t, `
Server:
  Port: 9090
  JWTSecret: ${TEST_JWT_SECRET}
Database:
  Driver: postgres
  DSN: postgres://localhost/careerpilot
LLM:
  Provider: mock
Roadmap:
  Concurrency: 2
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "s3cret", c.Server.JWTSecret)
	assert.Equal(t, "postgres", c.Database.Driver)
	assert.Equal(t, 2, c.Roadmap.Concurrency)
	assert.Equal(t, 2, c.Roadmap.ResultsPerQuery)
	assert.NoError(t, c.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAREERPILOT_DB", "/tmp/override.db")
	t.Setenv("TAVILY_API_KEY", "tvly-key")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", c.Database.DSN)
	assert.Equal(t, "tvly-key", c.Search.APIKey)
	// No groq key, so the first discovered provider wins.
	assert.Equal(t, "gemini", c.LLM.Provider)
	assert.Equal(t, "gem-key", c.LLM.Gemini.APIKey)
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))

	t.Setenv(EnvConfigPath, "env.yaml")
	assert.Equal(t, "env.yaml", ResolvePath(""))

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, "", ResolvePath(""))
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	c.LLM.Provider = "mock"
	require.NoError(t, c.Validate())

	c.Database.Driver = "postgres"
	assert.Error(t, c.Validate())

	c.Database.Driver = "oracle"
	assert.Error(t, c.Validate())

	c.Database.Driver = "sqlite"
	c.Blob.Bucket = "uploads"
	c.Blob.AccessKey = "only-half"
	assert.Error(t, c.Validate())
}

func TestStoreOptions(t *testing.T) {
	clearEnv(t)
	c := &Config{Database: DatabaseConfig{Driver: "postgres", DSN: "postgres://db", MaxOpenConns: 5}}
	opts, err := c.StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, "postgres://db", opts.DSN)
	assert.Equal(t, 5, opts.MaxOpenConns)
}
