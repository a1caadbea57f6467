package webhook

import "errors"

var (
	// ErrMissingURL возвращается, если адрес webhook не задан
	ErrMissingURL = errors.New("webhook client: missing url")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("webhook client: internal error")

	// ErrRejected возвращается, когда webhook ответил не 2xx
	ErrRejected = errors.New("webhook client: message rejected")
)
