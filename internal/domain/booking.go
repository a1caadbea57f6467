package domain

import "time"

// BookingPayload заявка на вывоз тары (pant) в том виде, в каком её прислала форма на сайте.
// Все значения уже обрезаны от пробелов; числовые поля хранятся в исходном строковом виде
type BookingPayload struct {
	Address           string
	Phone             string
	Name              string
	DesiredPickupTime string
	PickupTime1       string
	PickupTime2       string
	PostalCode        string
	City              string
	BagCount          string
	DepositAmount     string
	PayoutMethod      string
	SwishNumber       string
	Message           string
}

// IsSwishPayout true, если клиент выбрал выплату через Swish
func (p BookingPayload) IsSwishPayout() bool {
	return normalizeKeyword(p.PayoutMethod) == PayoutSwish
}

// Booking принятая заявка, которую получают уведомители
type Booking struct {
	ServerID   string
	ReceivedAt time.Time
	Payload    BookingPayload
}

// ValidationRules набор правил проверки заявки
type ValidationRules struct {
	Form        FormVariant
	PhoneFormat PhoneFormat
}

// Delivery итог отправки уведомления
type Delivery struct {
	Backend string
	Sent    int
	Failed  int
}
