package sms

import "errors"

var (
	// ErrMissingCredentials возвращается, если не заданы учётные данные Twilio
	ErrMissingCredentials = errors.New("sms client: missing credentials")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("sms client: internal error")

	// ErrRejected возвращается, когда провайдер ответил не 2xx
	ErrRejected = errors.New("sms client: message rejected")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("sms client: invalid response")
)
