package create_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-PantBookingService/internal/usecase/create_booking"
)

// CreateBookingUseCase принимает заявку на вывоз тары.
// При ошибке отправки ответ может быть не nil: в нём cookie лимита, которую handler обязан выставить
type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// Logger логирование отказов и принятых заявок
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
