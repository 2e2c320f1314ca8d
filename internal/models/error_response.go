package models

import "errors"

// Доменные ошибки. Репозиторий и инжест возвращают их как есть,
// сервисный слой оборачивает в ErrorResponse с нужным HTTP-статусом.
var (
	ErrTenderNotFound  = errors.New("tender not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrUpstreamFetch   = errors.New("upstream feed fetch failed")
	ErrMalformedRecord = errors.New("malformed feed record")
)

// ErrorResponse описывает ошибку с HTTP-статусом и сообщением для клиента.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
