package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse(t *testing.T) {
	src := `
indent    = "\t"
timeout   = "5s"
isolation = "process"
verbosity = 2

ui {
  addr = "127.0.0.1:9000"
}
`
	got, err := Parse("devtext.hcl", []byte(src))
	require.NoError(t, err)

	want := Config{
		IndentUnit: "\t",
		Timeout:    5 * time.Second,
		Isolation:  IsolationProcess,
		Addr:       "127.0.0.1:9000",
		Verbosity:  2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	got, err := Parse("devtext.hcl", []byte(`timeout = "1m"`))
	require.NoError(t, err)

	want := Default()
	want.Timeout = time.Minute
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEnvExpression(t *testing.T) {
	t.Setenv("DEVTEXT_TEST_PORT", "7070")
	got, err := Parse("devtext.hcl", []byte(`
ui {
  addr = "localhost:${env.DEVTEXT_TEST_PORT}"
}
`))
	require.NoError(t, err)
	require.Equal(t, "localhost:7070", got.Addr)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `indent = `},
		{"unknown attribute", `colour = "red"`},
		{"bad duration", `timeout = "soon"`},
		{"zero timeout", `timeout = "0s"`},
		{"unknown isolation", `isolation = "thread"`},
		{"bad indent", `indent = "ab"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("devtext.hcl", []byte(tt.src))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`isolation = "process"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, IsolationProcess, cfg.Isolation)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devtext.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`timeout = "5s"`), 0o644))

	t.Setenv("DEVTEXT_TIMEOUT", "250ms")
	t.Setenv("DEVTEXT_INDENT", "    ")
	t.Setenv("DEVTEXT_ISOLATION", "process")
	t.Setenv("DEVTEXT_ADDR", ":1234")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Timeout)
	require.Equal(t, "    ", cfg.IndentUnit)
	require.Equal(t, IsolationProcess, cfg.Isolation)
	require.Equal(t, ":1234", cfg.Addr)
}

func TestLoadBadEnvTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEVTEXT_TIMEOUT", "forever")
	_, err := Load("")
	require.Error(t, err)
}
