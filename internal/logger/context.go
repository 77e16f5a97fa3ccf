package logger

import (
	"context"
	"log/slog"
)

// Ключи для context
type contextKey string

const requestIDKey contextKey = "request_id"

// ============================================
// Context operations
// ============================================

// WithRequestID добавляет request ID в context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID извлекает request ID из context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// ============================================
// Context-aware логирование
// ============================================

// FromContext создает логгер с полями из context
// Автоматически добавляет request_id если есть в контексте
func FromContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()

	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}

	return logger
}

// ============================================
// Convenience функции с context
// ============================================

// CtxInfo логирует info с контекстом
func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

// CtxWarn логирует warning с контекстом
func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

// CtxError логирует error с контекстом
func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error(msg, args...)
}

// CtxWithError логирует error с error объектом
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	fields := append([]any{"error", err.Error()}, args...)
	FromContext(ctx).Error(msg, fields...)
}

// ============================================
// Примеры использования
// ============================================

/*

// 1. Базовое логирование (без context)
logger.Info("server started", "port", 4000)
logger.Error("failed to connect to push gateway", "error", err)

// 2. Логирование с дополнительными полями
logger.With("request_id", requestID, "event", "accepted").Info("change handled")

// 3. Логирование с context (в handlers и сервисах доставки)
func (s *dispatchService) broadcast(ctx context.Context, request *models.Request) error {
    // Логгер автоматически включит request_id из контекста
    logger.CtxInfo(ctx, "broadcast delivered", "recipients", len(recipients))

    // Или создать логгер один раз
    log := logger.FromContext(ctx)
    log.Info("composing message")
    log.Info("resolving recipients")
}

// 4. Специализированное логирование
logger.HTTPLog(ctx, "POST", "/api/v1/requests", 201, 50*time.Millisecond, 512)
logger.WorkerLog("expiry", "close_expired", nil, "closed", 3)

// 5. Добавление request_id в middleware
func RequestIDMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        requestID := uuid.NewString()
        ctx := logger.WithRequestID(c.Request.Context(), requestID)

        // Теперь все логи в этом запросе будут иметь request_id
        c.Request = c.Request.WithContext(ctx)
        c.Next()
    }
}

// 6. Fatal ошибки (прерывают выполнение)
if err := db.Ping(); err != nil {
    logger.Fatal("failed to connect to database", "error", err)
    // Программа завершится с exit code 1
}
*/
