package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	RequestHandler      *RequestHandler
	NotificationHandler *NotificationHandler
}
