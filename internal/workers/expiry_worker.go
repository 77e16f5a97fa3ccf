package workers

import (
	"context"
	"time"

	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/repositories"
)

// ExpiryWorker закрывает открытые заявки, чья required_date прошла.
// Закрытие идет через репозиторий, поэтому каждое изменение попадает
// в фид и обрабатывается контроллером как обычный переход open -> closed.
type ExpiryWorker struct {
	requestRepo repositories.RequestRepository
	interval    time.Duration
}

func NewExpiryWorker(requestRepo repositories.RequestRepository, interval time.Duration) *ExpiryWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ExpiryWorker{
		requestRepo: requestRepo,
		interval:    interval,
	}
}

// Start запускает фоновую задачу закрытия просроченных заявок
func (w *ExpiryWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ExpiryWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// первый проход сразу при старте, чтобы не ждать полный интервал
	w.sweep()

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *ExpiryWorker) sweep() {
	closed, err := w.requestRepo.CloseExpired(time.Now())
	if err != nil {
		logger.WorkerLog("expiry", "close_expired", err)
		return
	}
	if closed > 0 {
		logger.WorkerLog("expiry", "close_expired", nil, "closed", closed)
	}
}
