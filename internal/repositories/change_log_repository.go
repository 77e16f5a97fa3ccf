package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"bloodbridge_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChangeLogRepository - доступ к фиду изменений entity_changes.
// Запись делается внутри транзакции документа (метод принимает tx),
// чтение - пулом монитора.
type ChangeLogRepository interface {
	Record(tx *gorm.DB, collection string, action models.ChangeAction, recordID string, before, after interface{}) error
	FetchUnprocessed(collection string, limit int) ([]models.EntityChange, error)
	MarkProcessed(ids []uint) error
}

type ChangeLogRepositoryImpl struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &ChangeLogRepositoryImpl{db: db}
}

func (r *ChangeLogRepositoryImpl) Record(tx *gorm.DB, collection string, action models.ChangeAction, recordID string, before, after interface{}) error {
	change := models.EntityChange{
		Collection: collection,
		RecordID:   recordID,
		Action:     action,
		ChangedAt:  time.Now(),
	}

	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return fmt.Errorf("failed to marshal 'before' snapshot: %w", err)
		}
		change.Before = datatypes.JSON(raw)
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return fmt.Errorf("failed to marshal 'after' snapshot: %w", err)
		}
		change.After = datatypes.JSON(raw)
	}

	return tx.Create(&change).Error
}

func (r *ChangeLogRepositoryImpl) FetchUnprocessed(collection string, limit int) ([]models.EntityChange, error) {
	var changes []models.EntityChange
	err := r.db.
		Where("collection = ? AND processed = ?", collection, false).
		Order("changed_at ASC, id ASC").
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

func (r *ChangeLogRepositoryImpl) MarkProcessed(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.EntityChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error
}
