package logger

import (
	"fmt"

	"lightning-agent/internal/application/port/output"

	"go.uber.org/zap"
)

var _ output.LoggerPort = (*ZapAdapter)(nil)

// ZapAdapter implements LoggerPort on a zap sugared logger. The port's
// variadic args are zap's loosely typed key-value pairs.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

func NewZapAdapter(debug bool) (*ZapAdapter, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &ZapAdapter{sugar: log.Sugar()}, nil
}

func (l *ZapAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *ZapAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *ZapAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *ZapAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *ZapAdapter) WithField(key string, value any) output.LoggerPort {
	return &ZapAdapter{sugar: l.sugar.With(key, value)}
}

func (l *ZapAdapter) Close() error {
	// Sync on stderr returns an error on some platforms; the log data is
	// already flushed, so swallow it.
	_ = l.sugar.Sync()
	return nil
}
