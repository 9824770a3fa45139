package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core).Sugar()

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Infow("🏠 room created", "room", "ABC123")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "🏠 room created", entry.Message)
	assert.Equal(t, "ABC123", entry.ContextMap()["room"])

	// falls back to the global logger
	assert.Same(t, L(), FromContext(context.Background()))
}

func TestLogPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	prev := L()
	Set(zap.New(core).Sugar())
	defer Set(prev)

	LogPanic("boom")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", fields["panic"])
	assert.Contains(t, fields["stack"], "runtime/debug")
}

func TestInit_File(t *testing.T) {
	prev := L()
	defer Set(prev)

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	require.NoError(t, Init(Options{Level: "debug", File: path}))
	L().Debugw("hello", "k", 1)
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"message":"hello"`))
	assert.Contains(t, string(data), `"severity":"debug"`)
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, Init(Options{Level: "loud"}))
}

func TestPrepareFile_Rotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.log")
	require.NoError(t, os.WriteFile(path, make([]byte, maxFileSize+1), 0o600))

	require.NoError(t, prepareFile(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "big.log."))
}
