package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

// chdir moves into a fresh directory so no stray .env or po10.json5 leaks in.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, d)
}

func TestLoadFileAndLocalOverride(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, "po10.json5"), `{
  // comments are allowed
  base_url: "http://localhost:8080",
  timeout: "10s",
  format: "json",
}`)
	writeFile(t, filepath.Join(dir, "po10.local.json5"), `{timeout: "5s", dump_dir: "dumps"}`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, "5s", cfg.Timeout)
	require.Equal(t, "json", cfg.Format)
	require.Equal(t, "dumps", cfg.DumpDir)
	require.Equal(t, Defaults().UserAgent, cfg.UserAgent)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, "custom.json5"), `{log_level: "info"}`)
	t.Setenv("PO10_LOG_LEVEL", "debug")
	t.Setenv("PO10_USER_AGENT", "tests/1.0")

	cfg, err := Load(filepath.Join(dir, "custom.json5"))
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "tests/1.0", cfg.UserAgent)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, ".env"), "PO10_FORMAT=json\n")
	// godotenv never overrides variables that are already set, so make sure
	// the variable is unset and restored afterwards.
	t.Setenv("PO10_FORMAT", "")
	require.NoError(t, os.Unsetenv("PO10_FORMAT"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Format)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad timeout", `{timeout: "soon"}`, "invalid timeout"},
		{"negative timeout", `{timeout: "-1s"}`, "must be positive"},
		{"bad format", `{format: "xml"}`, "invalid format"},
		{"bad level", `{log_level: "chatty"}`, "invalid log_level"},
		{"bad json5", `{format: `, "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdir(t)
			writeFile(t, filepath.Join(dir, "po10.json5"), tt.body)

			_, err := Load("")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFile[Config](filepath.Join(dir, "nope.json5"))
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"po10.json5", "po10.local.json5"},
		{"conf/po10.json5", filepath.Join("conf", "po10.local.json5")},
		{"settings", "settings.local"},
	}
	for _, tt := range tests {
		if got := localName(tt.in); got != tt.want {
			t.Errorf("localName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
