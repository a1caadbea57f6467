package create_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-PantBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PantBookingService/internal/infra/ratelimit"
	createBooking "github.com/m04kA/SMC-PantBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidJSONBody = "Invalid JSON body"
	msgValidationError = "Validation error"
	msgRateLimited     = "Rate limited"
	msgNotConfigured   = "Notifier not configured"
	msgFailedToSend    = "Failed to send notification"
	headerForwardedFor = "X-Forwarded-For"
	headerCookie       = "Cookie"
	headerSetCookie    = "Set-Cookie"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		h.logger.Warn("POST /api/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSONBody)
		return
	}

	clientKey := ratelimit.ClientKey(r.Header.Get(headerForwardedFor))
	req := &createBooking.Request{
		Payload:      payload,
		CookieHeader: strings.Join(r.Header.Values(headerCookie), "; "),
		ClientKey:    clientKey,
	}

	result, err := h.useCase.Execute(r.Context(), req)

	// Cookie выставляется и при неудачной отправке, если use case успел её выпустить
	if result != nil && result.SetCookie != "" {
		w.Header().Add(headerSetCookie, result.SetCookie)
	}

	if err != nil {
		var validationErr *createBooking.ValidationError
		switch {
		case errors.As(err, &validationErr):
			handlers.RespondValidationError(w, msgValidationError, validationErr.Details)

		case errors.Is(err, createBooking.ErrRateLimited):
			handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)

		case errors.Is(err, createBooking.ErrNotConfigured):
			h.logger.Error("POST /api/book - Notifier not configured: %v", err)
			handlers.RespondError(w, http.StatusInternalServerError, msgNotConfigured)

		case errors.Is(err, createBooking.ErrSendFailed):
			h.logger.Error("POST /api/book - Failed to send notification: client=%s, error=%v", clientKey, err)
			handlers.RespondError(w, http.StatusBadGateway, msgFailedToSend)

		default:
			h.logger.Error("POST /api/book - Failed to create booking: client=%s, error=%v", clientKey, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /api/book - Booking created: server_id=%s, client=%s", result.ServerID, clientKey)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
