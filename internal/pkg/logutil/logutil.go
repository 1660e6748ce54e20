package logutil

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

type LogConfig struct {
	File     string `json:"file"`
	Level    string `json:"level"`
	FileSize int    `json:"file_size"`
	KeepDays int    `json:"keep_days"`
	Console  bool   `json:"console"`
}

var (
	mu     sync.RWMutex
	root   = zap.NewNop()
	inited bool
)

// Init builds the process logger. Safe to call once at startup; before that
// GetLogger returns a nop logger so tests stay quiet.
func Init(cfg LogConfig) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := make([]zapcore.Core, 0, 2)
	if cfg.File != "" {
		writer := &lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  cfg.FileSize,
			MaxAge:   cfg.KeepDays,
			Compress: true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}
	if cfg.Console || cfg.File == "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), level))
	}

	mu.Lock()
	root = zap.New(zapcore.NewTee(cores...))
	inited = true
	mu.Unlock()
}

// WithLogger stores a request-scoped logger on the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// GetLogger returns the request-scoped logger if present, the root logger
// otherwise.
func GetLogger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	mu.RLock()
	defer mu.RUnlock()
	return root
}
