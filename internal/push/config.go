package push

import "time"

// Config содержит конфигурацию FCM-шлюза
type Config struct {
	// Endpoint HTTP API (переопределяется в тестах)
	Endpoint string
	// ServerKey - серверный ключ авторизации
	ServerKey string
	Timeout   time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "https://fcm.googleapis.com/fcm/send",
		Timeout:  30 * time.Second,
	}
}
