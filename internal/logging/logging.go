// Package logging wraps zap with key-value helpers and redaction of credentials
// and personal identifiers.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled key-value logger. The zero value is not usable; use New or Nop.
type Logger struct {
	sugar    *zap.SugaredLogger
	redactor *redactor
}

// New builds a logger for the given mode ("development"/"dev" or
// "production"/"prod"). Redaction is controlled by LOG_REDACTION_ENABLED
// (default on) and LOG_HASH_SALT.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: zl.Sugar(), redactor: redactorFromEnv()}, nil
}

// NewWithCore builds a logger writing to an explicit zap core.
func NewWithCore(core zapcore.Core, redact bool, salt string) *Logger {
	return &Logger{
		sugar:    zap.New(core).Sugar(),
		redactor: &redactor{enabled: redact, salt: salt},
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), redactor: &redactor{}}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, l.redactor.sanitize(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, l.redactor.sanitize(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, l.redactor.sanitize(keysAndValues)...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, l.redactor.sanitize(keysAndValues)...)
}

// With returns a child logger that adds the given fields to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sugar:    l.sugar.With(l.redactor.sanitize(keysAndValues)...),
		redactor: l.redactor,
	}
}

func redactorFromEnv() *redactor {
	r := &redactor{enabled: true, salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.TrimSpace(strings.ToLower(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		r.enabled = false
	}
	return r
}
