package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// captureOutput подменяет глобальный логгер на пишущий в буфер
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log
	log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { log = prev })
	return &buf
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestHTTPLogLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"успешный ответ - info", 200, "http request"},
		{"клиентская ошибка - warn", 404, "http client error"},
		{"серверная ошибка - error", 500, "http server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t)
			ctx := WithRequestID(context.Background(), "req-42")

			HTTPLog(ctx, "GET", "/api/v1/requests", tt.status, 5*time.Millisecond, 128, "client_ip", "127.0.0.1")

			out := buf.String()
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "request_id=req-42")
			assert.Contains(t, out, "path=/api/v1/requests")
			assert.Contains(t, out, "client_ip=127.0.0.1")
		})
	}
}

func TestWorkerLog(t *testing.T) {
	buf := captureOutput(t)

	WorkerLog("expiry", "close_expired", nil, "closed", 3)
	assert.Contains(t, buf.String(), "worker operation completed")
	assert.Contains(t, buf.String(), "worker=expiry")
	assert.Contains(t, buf.String(), "closed=3")

	buf.Reset()
	WorkerLog("cleanup", "list_notifications", context.DeadlineExceeded)
	assert.Contains(t, buf.String(), "worker operation failed")
	assert.Contains(t, buf.String(), "error=")
}
