// Package logger builds the zap logger shared by the service.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Name is attached to every log entry.
const Name = "vh7"

// Logger holds the process-wide zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger that discards everything until Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the no-op logger with a JSON production logger at level.
func (l *Logger) Init(level string) error {
	return l.init(level, zap.NewProductionConfig())
}

// InitDevelopment is Init with human readable console output.
func (l *Logger) InitDevelopment(level string) error {
	return l.init(level, zap.NewDevelopmentConfig())
}

func (l *Logger) init(level string, cfg zap.Config) (err error) {
	if cfg.Level, err = zap.ParseAtomicLevel(level); err != nil {
		return err
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]any{"service": Name}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = built
	return nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() {
	_ = l.Log.Sync()
}
