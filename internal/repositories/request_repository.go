package repositories

import (
	"errors"
	"time"

	"bloodbridge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("request not found")

type RequestRepository interface {
	// Request operations. Create и Update пишут строку в фид изменений
	// в той же транзакции - это источник событий для ChangeMonitor.
	Create(request *models.Request) error
	Update(request *models.Request) error
	FindByID(id string) (*models.Request, error)
	FindOpen(limit, offset int) ([]models.Request, int64, error)

	// Expiry job: закрывает open-заявки с requiredDate < now.
	// Каждая заявка закрывается отдельной транзакцией (best-effort),
	// чтобы закрытие попало в фид и прошло обычный update-путь контроллера.
	CloseExpired(now time.Time) (int64, error)
}

type RequestRepositoryImpl struct {
	db        *gorm.DB
	changeLog ChangeLogRepository
}

func NewRequestRepository(db *gorm.DB, changeLog ChangeLogRepository) RequestRepository {
	return &RequestRepositoryImpl{db: db, changeLog: changeLog}
}

func (r *RequestRepositoryImpl) Create(request *models.Request) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		return r.changeLog.Record(tx, models.CollectionRequests, models.ChangeActionCreate, request.ID, nil, request)
	})
}

func (r *RequestRepositoryImpl) Update(request *models.Request) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var before models.Request
		if err := tx.First(&before, "id = ?", request.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if err := tx.Save(request).Error; err != nil {
			return err
		}
		return r.changeLog.Record(tx, models.CollectionRequests, models.ChangeActionUpdate, request.ID, &before, request)
	})
}

func (r *RequestRepositoryImpl) FindByID(id string) (*models.Request, error) {
	var request models.Request
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) FindOpen(limit, offset int) ([]models.Request, int64, error) {
	var requests []models.Request
	var total int64

	query := r.db.Model(&models.Request{}).Where("status = ?", models.RequestStatusOpen)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}

func (r *RequestRepositoryImpl) CloseExpired(now time.Time) (int64, error) {
	var expired []models.Request
	err := r.db.
		Where("status = ? AND required_date < ?", models.RequestStatusOpen, now).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}

	var closed int64
	var lastErr error
	for i := range expired {
		request := expired[i]
		request.Status = models.RequestStatusClosed
		if err := r.Update(&request); err != nil {
			// одна неудачно закрытая заявка не блокирует остальные,
			// следующий тик джобы её подберет
			lastErr = err
			continue
		}
		closed++
	}
	return closed, lastErr
}
