package apperrors

import (
	"fmt"
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок бизнес-логики домена (заявки, уведомления, доставка).
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// NewInternalError оборачивает системную ошибку с контекстным сообщением (500)
func NewInternalError(message string, err error) *AppError {
	return Wrap(err, CodeInternalError, "system", message, http.StatusInternalServerError)
}

// NewRequestNotFoundError - заявка не найдена (404)
func NewRequestNotFoundError(requestID string) *AppError {
	return New(CodeNotFound, "request", fmt.Sprintf("Blood request %s not found", requestID), http.StatusNotFound)
}

// NewUserNotFoundError - пользователь не найден (404)
func NewUserNotFoundError(userID string) *AppError {
	return New(CodeNotFound, "user", fmt.Sprintf("User %s not found", userID), http.StatusNotFound)
}

// NewNotificationNotFoundError - уведомление не найдено (404)
func NewNotificationNotFoundError(notificationID string) *AppError {
	return New(CodeNotFound, "notification", fmt.Sprintf("Notification %s not found", notificationID), http.StatusNotFound)
}

// NewNotificationAccessError - уведомление принадлежит другому пользователю (403)
func NewNotificationAccessError(notificationID string) *AppError {
	return New(CodeForbidden, "notification", "Access to notification denied", http.StatusForbidden)
}

// NewInvalidTransitionError - переход статуса заявки не разрешен (409)
func NewInvalidTransitionError(from, to string) *AppError {
	return New(
		CodeInvalidStatus,
		"request",
		fmt.Sprintf("Cannot transition request from '%s' to '%s'", from, to),
		http.StatusConflict,
	)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// ErrRequestNotOpen - принять можно только открытую заявку.
var ErrRequestNotOpen = New(
	CodeInvalidStatus,
	"request",
	"Request is not open",
	http.StatusConflict, // 409 - конфликт состояния, а не ошибка прав
)

// ErrRequestNotAccepted - завершить можно только принятую заявку.
var ErrRequestNotAccepted = New(
	CodeInvalidStatus,
	"request",
	"Request is not in accepted state",
	http.StatusConflict, // 409
)

// ErrNotRequester - операция доступна только автору заявки.
var ErrNotRequester = New(
	CodeForbidden,
	"request",
	"Only the requester can perform this operation",
	http.StatusForbidden, // 403
)

// ErrNotResponder - завершить донацию может только откликнувшийся донор.
var ErrNotResponder = New(
	CodeForbidden,
	"request",
	"Only the accepting donor can complete this request",
	http.StatusForbidden, // 403
)

// ErrMissingFCMToken - у пользователя нет зарегистрированного токена устройства.
var ErrMissingFCMToken = New(
	CodeInvalidOperation,
	"push",
	"User has no registered device token",
	http.StatusBadRequest, // 400
)
