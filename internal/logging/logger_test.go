package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerSingleton(t *testing.T) {
	first := Logger()
	second := Logger()
	assert.Same(t, first, second)
	require.NoError(t, Sync())
}

func TestInitAndVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf)
	t.Cleanup(func() { SetVerbose(false) })

	l.Debugw("hidden")
	l.Infow("checked", "files", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), `checked	{"files": 3}`)

	SetVerbose(true)
	l.Debugw("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Same(t, l, Logger())
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core))
	Logger().Warnw("type missing", "type", "Shape")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "type missing", entries[0].Message)
	assert.Equal(t, "Shape", entries[0].ContextMap()["type"])
}
