package create_booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

// UseCase use case приёма заявки на вывоз тары
type UseCase struct {
	limiter           RateLimiter
	notifier          Notifier
	rules             domain.ValidationRules
	chargeFailedSends bool
	metrics           Metrics
	idGenerator       IDGenerator
	timeProvider      TimeProvider
	logger            Logger
}

// NewUseCase создает новый экземпляр use case.
// chargeFailedSends определяет, расходует ли неудачная отправка окно лимита
func NewUseCase(
	limiter RateLimiter,
	notifier Notifier,
	rules domain.ValidationRules,
	chargeFailedSends bool,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		limiter:           limiter,
		notifier:          notifier,
		rules:             rules,
		chargeFailedSends: chargeFailedSends,
		metrics:           metrics,
		idGenerator:       &ServerIDGenerator{},
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
	}
}

// Execute выполняет use case приёма заявки.
// Порядок: проверка полей, проверка лимита, проверка настроек уведомителя, отправка.
// При ErrSendFailed ответ тоже может быть не nil: в нём cookie, которую нужно выставить клиенту
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация до любых побочных эффектов
	if details := Validate(req.Payload, uc.rules); len(details) > 0 {
		uc.logger.Warn("CreateBooking: validation failed: client=%s, details=%v", req.ClientKey, details)
		return nil, &ValidationError{Details: details}
	}

	now := uc.timeProvider.Now()
	nowMillis := now.UnixMilli()

	// 2. Проверка лимита по подписанной cookie
	if issuedAt, ok := uc.limiter.Check(req.CookieHeader, req.ClientKey); ok && uc.limiter.IsLimited(issuedAt, nowMillis) {
		uc.metrics.IncRateLimited()
		uc.logger.Warn("CreateBooking: rate limited: client=%s, last=%d ms ago", req.ClientKey, nowMillis-issuedAt)
		return nil, ErrRateLimited
	}

	// 3. Без настроенного уведомителя заявку принять нельзя
	if err := uc.notifier.Ready(); err != nil {
		uc.logger.Error("CreateBooking: notifier not ready: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	resp := &Response{
		ServerID:   uc.idGenerator.NewID(now),
		ServerTime: now.UTC(),
	}

	if uc.chargeFailedSends {
		resp.SetCookie = uc.limiter.Issue(nowMillis, req.ClientKey)
	}

	// 4. Отправка уведомления, без повторов
	booking := &domain.Booking{
		ServerID:   resp.ServerID,
		ReceivedAt: resp.ServerTime,
		Payload:    req.Payload,
	}

	delivery, err := uc.notifier.Notify(ctx, booking)
	if delivery != nil {
		resp.Backend = delivery.Backend
		resp.Sent = delivery.Sent
		resp.Failed = delivery.Failed
	}
	if err != nil {
		uc.logger.Error("CreateBooking: notification failed: server_id=%s, client=%s, error=%v",
			resp.ServerID, req.ClientKey, err)
		if resp.SetCookie == "" {
			resp = nil
		}
		return resp, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if resp.SetCookie == "" {
		resp.SetCookie = uc.limiter.Issue(nowMillis, req.ClientKey)
	}

	uc.logger.Info("CreateBooking: booking accepted: server_id=%s, client=%s, backend=%s, sent=%d, failed=%d",
		resp.ServerID, req.ClientKey, resp.Backend, resp.Sent, resp.Failed)

	return resp, nil
}

// ServerIDGenerator генерирует serverId вида PANT-<millis base36>-<8 hex>
type ServerIDGenerator struct{}

// NewID возвращает новый идентификатор заявки. Уникальность не гарантируется: это номер для отображения
func (g *ServerIDGenerator) NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "PANT-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)) + "-" + strings.ToUpper(suffix)
}
