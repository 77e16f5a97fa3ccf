package push

// Message - нагрузка push-сообщения (FCM notification + data)
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// TokenError - ошибка доставки на конкретный токен
type TokenError struct {
	Token string
	Err   string
}

// SendReport - итог пакетной отправки по токенам
type SendReport struct {
	SuccessCount int
	FailureCount int
	Errors       []TokenError
}
