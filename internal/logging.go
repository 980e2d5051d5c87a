package internal

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds process logger. Verbose enables debug level and human-readable output.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type loggerKeyType string

const (
	ctxLogger loggerKeyType = "logger"
)

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxLogger, logger)
}

func LoggerFromContext(ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(ctxLogger).(*zap.Logger); ok {
		return v
	}
	return zap.L()
}

func SubLogger(ctx context.Context, name string) *zap.Logger {
	return LoggerFromContext(ctx).Named(name)
}
