package create_booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation возвращается, когда заявка не прошла проверку полей
	ErrValidation = errors.New("create_booking: validation failed")

	// ErrRateLimited возвращается, когда клиент уже отправлял заявку в пределах окна
	ErrRateLimited = errors.New("create_booking: rate limited")

	// ErrNotConfigured возвращается, когда уведомитель не настроен
	ErrNotConfigured = errors.New("create_booking: notifier is not configured")

	// ErrSendFailed возвращается, когда уведомление не удалось отправить
	ErrSendFailed = errors.New("create_booking: notification send failed")
)

// ValidationError ошибка проверки с перечнем проблем по полям
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
