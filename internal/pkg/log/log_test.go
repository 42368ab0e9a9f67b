package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slurmview.log")
	logger, cleanup, err := NewLogger("file", "json", path, "debug")
	require.NoError(t, err)
	logger.Debug("hello", "node", "cn001")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"node":"cn001"`)
}

func TestNewLogger_Errors(t *testing.T) {
	_, _, err := NewLogger("file", "text", "", "info")
	assert.Error(t, err)
	_, _, err = NewLogger("syslog", "text", "", "info")
	assert.Error(t, err)
	_, _, err = NewLogger("stderr", "xml", "", "info")
	assert.Error(t, err)
	_, _, err = NewLogger("stderr", "text", "", "trace")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}
