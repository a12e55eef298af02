package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels accepted by Config.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// Config selects the console verbosity.
type Config struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// New returns a console logger. Entries below error go to out and errors go
// to errOut; LevelNone discards everything.
func New(cfg Config, out, errOut io.Writer) (*zap.Logger, error) {
	var minLevel zapcore.Level
	switch strings.ToLower(strings.TrimSpace(cfg.Level)) {
	case LevelNone:
		return zap.NewNop(), nil
	case "", LevelNormal:
		minLevel = zapcore.InfoLevel
	case LevelDebug:
		minLevel = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("logging: unknown level %q", cfg.Level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minLevel <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), lowPriority),
		zapcore.NewCore(encoder.Clone(), zapcore.Lock(zapcore.AddSync(errOut)), highPriority),
	)
	return zap.New(core).Named("widgettweaks"), nil
}
