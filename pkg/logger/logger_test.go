package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"local", "dev", "production"} {
		log := New(env)
		require.NotNil(t, log)
	}
	assert.True(t, New("local").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("production").Core().Enabled(zapcore.DebugLevel))
}

func TestNewFile_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.log")

	log := NewFile(FileOptions{Path: path, Level: zapcore.InfoLevel})
	log.Info("session saved")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"session saved"`)
}

func TestNewFile_EmptyPathIsNop(t *testing.T) {
	log := NewFile(FileOptions{})
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}
