package sms

// Credentials учётные данные Twilio
type Credentials struct {
	BaseURL             string
	AccountSID          string
	AuthToken           string
	FromNumber          string
	MessagingServiceSID string
}

// Message созданное сообщение из ответа Twilio
type Message struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	To           string  `json:"to"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

// ErrorResponse модель ошибки Twilio
type ErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}
