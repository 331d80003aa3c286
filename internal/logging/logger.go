// Package logging holds the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu         sync.Mutex
	logger     *zap.SugaredLogger
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	syncLogger = func() error { return nil }
)

// Logger returns the logger, initialising it on stderr on first use.
func Logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		install(zapcore.Lock(os.Stderr))
	}
	return logger
}

// Init replaces the logger with one writing human-readable lines to w.
func Init(w io.Writer) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	install(zapcore.AddSync(w))
	return logger
}

// Use replaces the logger with base, typically an observer in tests.
func Use(base *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = base.Sugar()
	syncLogger = base.Sync
}

func install(ws zapcore.WriteSyncer) {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "msg"
	enc.LevelKey = "level"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""
	enc.StacktraceKey = ""

	base := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, level))
	logger = base.Sugar()
	syncLogger = base.Sync
}

// SetVerbose switches debug output on or off.
func SetVerbose(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.Lock()
	fn := syncLogger
	mu.Unlock()
	if err := fn(); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument") {
			return nil
		}
		return err
	}
	return nil
}
