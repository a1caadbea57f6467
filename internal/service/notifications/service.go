package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

// Backend способ доставки уведомления
type Backend string

const (
	BackendSMS     Backend = "sms"
	BackendWebhook Backend = "webhook"
)

const (
	resultSent   = "sent"
	resultFailed = "failed"
)

// ResolveBackend выбирает backend: явно заданный, иначе webhook при наличии URL, иначе SMS
func ResolveBackend(configured, webhookURL string) Backend {
	switch Backend(strings.ToLower(strings.TrimSpace(configured))) {
	case BackendSMS:
		return BackendSMS
	case BackendWebhook:
		return BackendWebhook
	}
	if strings.TrimSpace(webhookURL) != "" {
		return BackendWebhook
	}
	return BackendSMS
}

// Service сервис отправки уведомлений о новой заявке владельцу
type Service struct {
	backend    Backend
	sms        SMSClient
	webhook    WebhookClient
	recipients []string
	metrics    Metrics
	logger     Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	backend Backend,
	smsClient SMSClient,
	webhookClient WebhookClient,
	recipients []string,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		backend:    backend,
		sms:        smsClient,
		webhook:    webhookClient,
		recipients: recipients,
		metrics:    metrics,
		logger:     logger,
	}
}

// Backend возвращает выбранный backend
func (s *Service) Backend() Backend {
	return s.backend
}

// Ready проверяет, что у выбранного backend есть всё необходимое для отправки
func (s *Service) Ready() error {
	switch s.backend {
	case BackendWebhook:
		if err := s.webhook.CheckConfig(); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
	default:
		if err := s.sms.CheckConfig(); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		if len(s.recipients) == 0 {
			return fmt.Errorf("%w: no recipients in OWNER_PHONE_NUMBERS", ErrNotConfigured)
		}
	}
	return nil
}

// Notify отправляет уведомление о заявке.
// Для SMS результат возвращается и вместе с ErrSendFailed, чтобы были видны счётчики
func (s *Service) Notify(ctx context.Context, booking *domain.Booking) (*domain.Delivery, error) {
	if err := s.Ready(); err != nil {
		s.logger.Error("Notify: %v", err)
		return nil, err
	}

	if s.backend == BackendWebhook {
		return s.notifyWebhook(ctx, booking)
	}
	return s.notifySMS(ctx, booking)
}

// notifySMS отправляет SMS каждому получателю по очереди, без повторов
func (s *Service) notifySMS(ctx context.Context, booking *domain.Booking) (*domain.Delivery, error) {
	body := ComposeSMS(booking)
	delivery := &domain.Delivery{Backend: string(BackendSMS)}

	for _, to := range s.recipients {
		if _, err := s.sms.Send(ctx, to, body); err != nil {
			delivery.Failed++
			s.metrics.IncNotification(string(BackendSMS), resultFailed)
			s.logger.Warn("Notify: SMS to %s failed for booking %s: %v", maskPhone(to), booking.ServerID, err)
			continue
		}
		delivery.Sent++
		s.metrics.IncNotification(string(BackendSMS), resultSent)
	}

	if delivery.Sent == 0 {
		s.logger.Error("Notify: no SMS delivered for booking %s (%d failed)", booking.ServerID, delivery.Failed)
		return delivery, fmt.Errorf("%w: 0 of %d SMS accepted", ErrSendFailed, len(s.recipients))
	}

	s.logger.Info("Notify: booking %s sent by SMS: sent=%d, failed=%d", booking.ServerID, delivery.Sent, delivery.Failed)
	return delivery, nil
}

func (s *Service) notifyWebhook(ctx context.Context, booking *domain.Booking) (*domain.Delivery, error) {
	if err := s.webhook.Post(ctx, ComposeWebhook(booking)); err != nil {
		s.metrics.IncNotification(string(BackendWebhook), resultFailed)
		s.logger.Error("Notify: webhook failed for booking %s: %v", booking.ServerID, err)
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	s.metrics.IncNotification(string(BackendWebhook), resultSent)
	s.logger.Info("Notify: booking %s sent to webhook", booking.ServerID)
	return &domain.Delivery{Backend: string(BackendWebhook), Sent: 1}, nil
}

// maskPhone скрывает середину номера в логах
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "***"
	}
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}
