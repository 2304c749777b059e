package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process wide logger. It is a no-op logger until Init is called so
// packages can log from tests without any setup.
var Log = zap.NewNop()

var initOnce sync.Once

// Init builds the development logger once. Later calls are ignored.
func Init() {
	initOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err := cfg.Build()
		if err != nil {
			return
		}
		Log = l
	})
}

// SetLevel swaps Log for a development logger that filters below level.
func SetLevel(level zapcore.Level) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// SetLogger replaces Log and returns a func restoring the previous one.
func SetLogger(l *zap.Logger) func() {
	prev := Log
	Log = l
	return func() { Log = prev }
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
