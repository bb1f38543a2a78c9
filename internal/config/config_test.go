package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	perrors "github.com/showgood/html-preview/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
document: ./docs/notes.md
generator: slides
after_change_idle_delay: 1.5
preview_identity: "*my-preview*"
server:
  listen: 0.0.0.0
  port: 9000
output:
  directory: ./out
state:
  path: ./state.db
generators:
  - name: org
    command: ["pandoc", "-f", "org", "-o", "{output}", "{input}"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./docs/notes.md", cfg.Document)
	require.Equal(t, "slides", cfg.Generator)
	require.Equal(t, 1500*time.Millisecond, cfg.IdleDelay())
	require.Equal(t, "*my-preview*", cfg.PreviewIdentity)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Len(t, cfg.Generators, 1)
	require.Equal(t, "org", cfg.Generators[0].Name)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, "document: a.md\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPreviewIdentity, cfg.PreviewIdentity)
	require.Equal(t, DefaultListen, cfg.Server.Listen)
	require.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoad_UnsetIdleDelayDisablesDebounce(t *testing.T) {
	path := writeConfig(t, "document: a.md\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), cfg.IdleDelay())
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PREVIEW_DOC", "/srv/docs/notes.md")
	path := writeConfig(t, "document: ${PREVIEW_DOC}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/docs/notes.md", cfg.Document)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, perrors.IsCategory(err, perrors.CategoryConfig))
}

func TestValidate_ErrorsAreConfigCategory(t *testing.T) {
	path := writeConfig(t, "after_change_idle_delay: -1\n")
	_, err := Load(path)
	require.True(t, perrors.IsCategory(err, perrors.CategoryConfig))
}

func TestValidate_RejectsNegativeDelay(t *testing.T) {
	path := writeConfig(t, "after_change_idle_delay: -1\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_RejectsGeneratorWithoutCommand(t *testing.T) {
	path := writeConfig(t, "generators:\n  - name: broken\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestNormalizeLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, NormalizeLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, NormalizeLogLevel("WARN"))
	require.Equal(t, slog.LevelError, NormalizeLogLevel("error"))
	require.Equal(t, slog.LevelInfo, NormalizeLogLevel(""))
	require.Equal(t, slog.LevelInfo, NormalizeLogLevel("bogus"))
}
