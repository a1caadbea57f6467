package domain

import (
	"strings"
	"time"
)

// FormVariant вариант формы на сайте
type FormVariant string

const (
	FormBasic FormVariant = "basic" // только адрес и телефон обязательны
	FormFull  FormVariant = "full"  // подробная форма с адресом, пакетами и выплатой
)

// PhoneFormat правило проверки телефона
type PhoneFormat string

const (
	PhoneGeneric PhoneFormat = "generic"
	PhoneSwedish PhoneFormat = "swedish"
)

const PayoutSwish = "swish"

// MinPickupTimeGap минимальный интервал между двумя предложенными временами вывоза
const MinPickupTimeGap = time.Hour

// Поля JSON, которые присылает форма
const (
	FieldAddress           = "adress"
	FieldPhone             = "telefon"
	FieldName              = "namn"
	FieldDesiredPickupTime = "onskadTid"
	FieldPickupTime1       = "tid1"
	FieldPickupTime2       = "tid2"
	FieldPostalCode        = "postnummer"
	FieldCity              = "ort"
	FieldBagCount          = "antalPasar"
	FieldDepositAmount     = "pantbelopp"
	FieldPayoutMethod      = "utbetalning"
	FieldSwishNumber       = "swishnummer"
	FieldMessage           = "meddelande"
)

// ServerTimeFormat формат serverTime в ответе (ISO 8601 с миллисекундами)
const ServerTimeFormat = "2006-01-02T15:04:05.000Z07:00"

func normalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
