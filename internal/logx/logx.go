package logx

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging facade used throughout the repo.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Sync() error
}

// Options select the output encoding and verbosity.
type Options struct {
	Level string // debug, info, warn, error
	JSON  bool
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New builds a zap-backed Logger writing to stderr.
func New(o Options) Logger {
	var enc zapcore.Encoder
	if o.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), LevelByString(o.Level))
	return &zapLogger{s: zap.New(core).Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

// LevelByString maps a config string to a zap level, defaulting to info.
func LevelByString(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *zapLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
func (l *zapLogger) Sync() error                       { return l.s.Sync() }
