package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

// RateLimiter интерфейс ограничителя частоты заявок на основе cookie
type RateLimiter interface {
	Check(cookieHeader, clientKey string) (int64, bool)
	Issue(nowMillis int64, clientKey string) string
	IsLimited(issuedAtMillis, nowMillis int64) bool
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	Ready() error
	Notify(ctx context.Context, booking *domain.Booking) (*domain.Delivery, error)
}

// Metrics интерфейс учёта отклонённых заявок
type Metrics interface {
	IncRateLimited()
}

// IDGenerator интерфейс генерации serverId
type IDGenerator interface {
	NewID(now time.Time) string
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
