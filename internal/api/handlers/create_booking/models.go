package create_booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-PantBookingService/internal/usecase/create_booking"
)

// MaxBodyBytes предельный размер тела заявки
const MaxBodyBytes = 64 << 10

var errInvalidBody = errors.New("invalid request body")

// BookResponse тело успешного ответа
type BookResponse struct {
	OK         bool   `json:"ok"`
	ServerID   string `json:"serverId"`
	ServerTime string `json:"serverTime"`
	Sent       *int   `json:"sent,omitempty"`
	Failed     *int   `json:"failed,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ.
// Счётчики отдаются только для SMS: у webhook один получатель
func FromUseCaseResponse(resp *createBooking.Response) BookResponse {
	result := BookResponse{
		OK:         true,
		ServerID:   resp.ServerID,
		ServerTime: resp.ServerTime.UTC().Format(domain.ServerTimeFormat),
	}
	if resp.Backend == "sms" {
		sent, failed := resp.Sent, resp.Failed
		result.Sent = &sent
		result.Failed = &failed
	}
	return result
}

// decodePayload читает тело запроса: JSON объект, JSON строку с объектом внутри или форму
func decodePayload(w http.ResponseWriter, r *http.Request) (domain.BookingPayload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return domain.BookingPayload{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	if isForm(r.Header.Get("Content-Type")) {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return domain.BookingPayload{}, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return payloadFromLookup(func(key string) (interface{}, bool) {
			if _, ok := values[key]; !ok {
				return nil, false
			}
			return values.Get(key), true
		}), nil
	}

	fields, err := decodeObject(body)
	if err != nil {
		return domain.BookingPayload{}, err
	}
	return payloadFromLookup(func(key string) (interface{}, bool) {
		v, ok := fields[key]
		return v, ok
	}), nil
}

// decodeObject разбирает JSON объект; строка с JSON объектом внутри разворачивается один раз
func decodeObject(body []byte) (map[string]interface{}, error) {
	var raw interface{}
	if err := decodeJSON(body, &raw); err != nil {
		return nil, err
	}

	if s, ok := raw.(string); ok {
		if err := decodeJSON([]byte(s), &raw); err != nil {
			return nil, err
		}
	}

	fields, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: body is not a JSON object", errInvalidBody)
	}
	return fields, nil
}

func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	// после значения допускаются только пробельные символы
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON value", errInvalidBody)
	}
	return nil
}

func isForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func payloadFromLookup(lookup func(key string) (interface{}, bool)) domain.BookingPayload {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return stringValue(v)
	}

	return domain.BookingPayload{
		Address:           get(domain.FieldAddress),
		Phone:             get(domain.FieldPhone),
		Name:              get(domain.FieldName),
		DesiredPickupTime: get(domain.FieldDesiredPickupTime),
		PickupTime1:       get(domain.FieldPickupTime1),
		PickupTime2:       get(domain.FieldPickupTime2),
		PostalCode:        get(domain.FieldPostalCode),
		City:              get(domain.FieldCity),
		BagCount:          get(domain.FieldBagCount),
		DepositAmount:     get(domain.FieldDepositAmount),
		PayoutMethod:      get(domain.FieldPayoutMethod),
		SwishNumber:       get(domain.FieldSwishNumber),
		Message:           get(domain.FieldMessage),
	}
}

// stringValue приводит значение поля к строке; null, объекты и массивы считаются пустыми
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
