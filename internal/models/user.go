package models

// User - аккаунт донора/заявителя. Регистрация и редактирование профиля
// живут в соседнем сервисе; здесь читаются только id, email и fcm_token.
type User struct {
	BaseModel
	Name       string   `json:"name"`
	Email      string   `gorm:"index" json:"email"`
	Role       UserRole `gorm:"type:varchar(20);not null;default:'donor'" json:"role"`
	BloodGroup string   `json:"bloodGroup"`
	FCMToken   string   `gorm:"column:fcm_token" json:"-"` // опциональный push-адрес устройства
}
