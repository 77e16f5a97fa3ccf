package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChangeAction string

const (
	ChangeActionCreate ChangeAction = "CREATE"
	ChangeActionUpdate ChangeAction = "UPDATE"
)

const CollectionRequests = "requests"

// EntityChange - строка фида изменений. Репозитории пишут её в той же
// транзакции, что и сам документ; ChangeMonitor вычитывает необработанные
// строки и отдает пары (before, after) контроллеру жизненного цикла.
type EntityChange struct {
	ID         uint           `gorm:"primaryKey"`
	Collection string         `gorm:"type:varchar(50);not null;index:idx_collection_processed"`
	RecordID   string         `gorm:"not null"`
	Action     ChangeAction   `gorm:"type:varchar(10);not null"`
	Before     datatypes.JSON // nil для CREATE
	After      datatypes.JSON
	ChangedAt  time.Time      `gorm:"not null"`
	Processed  bool           `gorm:"default:false;index:idx_collection_processed"`
}
