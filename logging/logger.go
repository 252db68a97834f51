package logging

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

type ctxKey string

const (
	sessionKey ctxKey = "session_id"
	requestKey ctxKey = "request_id"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	SetDebug(os.Getenv("MANOSABA_DEBUG") == "true")
}

// SetDebug 在开发与生产两种日志配置之间切换。
func SetDebug(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Replace 替换全局 logger，测试中可传入 zaptest/observer 构造的 logger。
func Replace(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

func L() *zap.Logger { return logger.Load() }

func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// WithSession 把会话 ID 放进 ctx，之后 WithCtx 会自动带上该字段。
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// WithRequest 把请求 ID 放进 ctx。
func WithRequest(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestKey, requestID)
}

func WithCtx(ctx context.Context) *zap.Logger {
	fields := []zap.Field{}

	if v, ok := ctx.Value(sessionKey).(string); ok && v != "" {
		fields = append(fields, zap.String(string(sessionKey), v))
	}
	if v, ok := ctx.Value(requestKey).(string); ok && v != "" {
		fields = append(fields, zap.String(string(requestKey), v))
	}

	return L().With(fields...)
}

// Sync 刷新缓冲的日志，进程退出前调用。
func Sync() {
	_ = L().Sync()
}
