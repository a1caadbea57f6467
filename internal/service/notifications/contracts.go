package notifications

import (
	"context"

	"github.com/m04kA/SMC-PantBookingService/internal/integrations/sms"
)

// SMSClient интерфейс клиента SMS провайдера
type SMSClient interface {
	CheckConfig() error
	Send(ctx context.Context, to, body string) (*sms.Message, error)
}

// WebhookClient интерфейс клиента чат-webhook
type WebhookClient interface {
	CheckConfig() error
	Post(ctx context.Context, content string) error
}

// Metrics интерфейс учёта отправок
type Metrics interface {
	IncNotification(backend, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
