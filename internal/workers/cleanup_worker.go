package workers

import (
	"context"
	"errors"
	"time"

	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services"
)

const cleanupBatchSize = 200

// CleanupWorker выметает осиротевшие fan-out уведомления: записи типа
// blood_request, чья заявка удалена или уже не открыта. Основной путь
// очистки - контроллер на переходе open -> non-open; воркер страхует
// от случаев, когда доставка или очистка не отработали.
type CleanupWorker struct {
	requestRepo      repositories.RequestRepository
	notificationRepo repositories.NotificationRepository
	dispatch         services.DispatchService
	interval         time.Duration
}

func NewCleanupWorker(
	requestRepo repositories.RequestRepository,
	notificationRepo repositories.NotificationRepository,
	dispatch services.DispatchService,
	interval time.Duration,
) *CleanupWorker {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &CleanupWorker{
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		dispatch:         dispatch,
		interval:         interval,
	}
}

// Start запускает фоновую задачу очистки осиротевших уведомлений
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	// все referenceID собираются до каких-либо удалений: удаление во
	// время постраничного обхода сдвигает оставшиеся строки на уже
	// пройденные offset'ы, и часть сирот дожила бы до следующего тика
	refIDs, err := w.collectReferences()
	if err != nil {
		logger.WorkerLog("cleanup", "list_notifications", err)
		return
	}

	var deleted int64
	for _, refID := range refIDs {
		orphaned, err := w.isOrphaned(refID)
		if err != nil {
			logger.WorkerLog("cleanup", "check_request", err, "request_id", refID)
			continue
		}
		if !orphaned {
			continue
		}

		count, err := w.dispatch.CleanupRequestNotifications(ctx, refID)
		if err != nil {
			logger.WorkerLog("cleanup", "delete_notifications", err, "request_id", refID)
			continue
		}
		deleted += count
	}

	if deleted > 0 {
		logger.WorkerLog("cleanup", "orphan_sweep", nil, "deleted", deleted)
	}
}

// collectReferences постранично вычитывает записи типа blood_request и
// возвращает уникальные referenceID в порядке первого появления.
func (w *CleanupWorker) collectReferences() ([]string, error) {
	seen := make(map[string]bool)
	var refIDs []string

	for offset := 0; ; offset += cleanupBatchSize {
		notifications, err := w.notificationRepo.FindByType(models.NotificationTypeBloodRequest, cleanupBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for i := range notifications {
			refID := notifications[i].ReferenceID
			if refID == "" || seen[refID] {
				continue
			}
			seen[refID] = true
			refIDs = append(refIDs, refID)
		}

		if len(notifications) < cleanupBatchSize {
			return refIDs, nil
		}
	}
}

func (w *CleanupWorker) isOrphaned(requestID string) (bool, error) {
	request, err := w.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return true, nil
		}
		return false, err
	}
	return !request.IsOpen(), nil
}
