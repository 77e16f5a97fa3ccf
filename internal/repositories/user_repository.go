package repositories

import (
	"errors"

	"bloodbridge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByIDs(ids []string) ([]models.User, error)
	// FindAllIDs - поток id всех зарегистрированных пользователей
	// для широкой рассылки (fan-out).
	FindAllIDs() ([]string, error)
	UpdateFCMToken(userID, token string) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindAllIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepositoryImpl) UpdateFCMToken(userID, token string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("fcm_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
