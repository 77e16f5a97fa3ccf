package events

import (
	"context"
	"encoding/json"
	"time"

	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services"
)

const defaultBatchSize = 100

// ChangeMonitor опрашивает фид entity_changes и передает пары
// снапшотов (before, after) контроллеру жизненного цикла. Записи фида
// помечаются processed независимо от исхода обработки - повторная
// доставка уведомления хуже пропущенной.
type ChangeMonitor struct {
	changeRepo repositories.ChangeLogRepository
	dispatch   services.DispatchService
	interval   time.Duration
	batchSize  int
}

func NewChangeMonitor(changeRepo repositories.ChangeLogRepository, dispatch services.DispatchService, interval time.Duration) *ChangeMonitor {
	if interval <= 0 {
		interval = 1 * time.Second
	}
	return &ChangeMonitor{
		changeRepo: changeRepo,
		dispatch:   dispatch,
		interval:   interval,
		batchSize:  defaultBatchSize,
	}
}

// Start запускает цикл опроса. Блокируется до отмены контекста,
// поэтому вызывается в отдельной горутине.
func (m *ChangeMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("change monitor started", "interval", m.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("change monitor stopped")
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *ChangeMonitor) poll(ctx context.Context) {
	changes, err := m.changeRepo.FetchUnprocessed(models.CollectionRequests, m.batchSize)
	if err != nil {
		logger.Error("failed to fetch unprocessed changes", "error", err.Error())
		return
	}
	if len(changes) == 0 {
		return
	}

	processed := make([]uint, 0, len(changes))
	for i := range changes {
		m.handle(ctx, &changes[i])
		processed = append(processed, changes[i].ID)
	}

	if err := m.changeRepo.MarkProcessed(processed); err != nil {
		logger.Error("failed to mark changes processed", "error", err.Error(), "count", len(processed))
	}
}

func (m *ChangeMonitor) handle(ctx context.Context, change *models.EntityChange) {
	log := logger.FromContext(ctx).With(
		"change_id", change.ID,
		"record_id", change.RecordID,
		"action", change.Action,
	)

	before, err := decodeRequest(change.Before)
	if err != nil {
		log.Error("failed to decode before snapshot", "error", err.Error())
		return
	}
	after, err := decodeRequest(change.After)
	if err != nil {
		log.Error("failed to decode after snapshot", "error", err.Error())
		return
	}

	if err := m.dispatch.HandleChange(ctx, before, after); err != nil {
		log.Error("change handling failed", "error", err.Error())
	}
}

func decodeRequest(raw []byte) (*models.Request, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var request models.Request
	if err := json.Unmarshal(raw, &request); err != nil {
		return nil, err
	}
	return &request, nil
}
