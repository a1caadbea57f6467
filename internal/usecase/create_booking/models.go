package create_booking

import (
	"time"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

// Request модель запроса на создание заявки
type Request struct {
	Payload      domain.BookingPayload
	CookieHeader string // заголовок Cookie как пришёл от клиента
	ClientKey    string // ключ клиента для подписи cookie
}

// Response модель ответа с принятой заявкой
type Response struct {
	ServerID   string
	ServerTime time.Time

	// Backend, Sent и Failed заполняются после отправки уведомления
	Backend string
	Sent    int
	Failed  int

	// SetCookie значение заголовка Set-Cookie; пустое, если cookie не выпускалась
	SetCookie string
}
