package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// sandbox runs the test from an empty working directory with no config
// file, no PHISHURL_* variables and the default logger restored afterwards.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configHome := t.TempDir()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(configHome, "none"))
	xdg.Reload()
	t.Chdir(dir)

	for _, key := range []string{"PHISHURL_ROOT", "PHISHURL_OUTPUT", "PHISHURL_DRIVER", "PHISHURL_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
