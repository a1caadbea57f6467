package notifications

import "errors"

var (
	// ErrNotConfigured возвращается, если у выбранного backend нет обязательных настроек
	ErrNotConfigured = errors.New("notifications: backend is not configured")

	// ErrSendFailed возвращается, если уведомление не принял ни один получатель
	ErrSendFailed = errors.New("notifications: send failed")
)
