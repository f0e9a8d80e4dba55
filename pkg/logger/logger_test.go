package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNew_BadLevelFallsBack(t *testing.T) {
	l, err := New(Config{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.log")

	l, err := New(Config{Level: "debug", Format: "json", OutputFile: path})
	require.NoError(t, err)

	l.Debug("pager: loaded page", zap.Int("page", 3))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "pager: loaded page", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "stbdb", entry["service"])
	assert.Equal(t, float64(3), entry["page"])
	assert.NotEmpty(t, entry["session"])
}

func TestNew_BadOutputFile(t *testing.T) {
	_, err := New(Config{OutputFile: filepath.Join(t.TempDir(), "missing", "db.log")})
	require.Error(t, err)
}
