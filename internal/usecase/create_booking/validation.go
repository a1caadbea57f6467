package create_booking

import (
	"regexp"
	"time"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

const (
	msgAddressRequired     = "address is required"
	msgPhoneRequired       = "phone number is required"
	msgPhoneInvalid        = "phone number is invalid"
	msgNameRequired        = "name is required"
	msgPostalCodeRequired  = "postal code is required"
	msgCityRequired        = "city is required"
	msgBagCountRequired    = "bag count is required"
	msgDepositRequired     = "deposit amount is required"
	msgPickupTimeRequired  = "pickup time is required"
	msgPickupTime1Invalid  = "pickup time 1 is not a valid date and time"
	msgPickupTime2Invalid  = "pickup time 2 is not a valid date and time"
	msgPickupTimesTooClose = "pickup times must be at least 1 hour apart"
	msgSwishNumberRequired = "swish number is required"
	msgSwishNumberInvalid  = "swish number is invalid"
)

var (
	genericPhoneRe    = regexp.MustCompile(`^\+?[0-9 \-]{7,}$`)
	swedishMobileRe   = regexp.MustCompile(`^(?:0?7[02369]\d{7}|\+467[02369]\d{7})$`)
	phoneStripRe      = regexp.MustCompile(`[^0-9+]`)
	pickupTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// Validate проверяет заявку целиком и возвращает все найденные проблемы.
// Пустой результат означает, что заявку можно принимать. Функция не имеет побочных эффектов
func Validate(p domain.BookingPayload, rules domain.ValidationRules) []string {
	var details []string
	add := func(msg string) { details = append(details, msg) }

	if p.Address == "" {
		add(msgAddressRequired)
	}

	switch {
	case p.Phone == "":
		add(msgPhoneRequired)
	case !isValidPhone(p.Phone, rules.PhoneFormat):
		add(msgPhoneInvalid)
	}

	if rules.Form == domain.FormFull {
		if p.Name == "" {
			add(msgNameRequired)
		}
		if p.PostalCode == "" {
			add(msgPostalCodeRequired)
		}
		if p.City == "" {
			add(msgCityRequired)
		}
		if p.BagCount == "" {
			add(msgBagCountRequired)
		}
		if p.DepositAmount == "" {
			add(msgDepositRequired)
		}
		if p.DesiredPickupTime == "" && p.PickupTime1 == "" {
			add(msgPickupTimeRequired)
		}
	}

	details = append(details, validatePickupTimes(p.PickupTime1, p.PickupTime2)...)

	if p.IsSwishPayout() {
		switch {
		case p.SwishNumber == "":
			add(msgSwishNumberRequired)
		case !isValidPhone(p.SwishNumber, rules.PhoneFormat):
			add(msgSwishNumberInvalid)
		}
	}

	return details
}

// validatePickupTimes проверяет пару предложенных времён вывоза.
// Проверка выполняется, только если заданы оба: тогда оба должны разбираться и отстоять не меньше чем на час
func validatePickupTimes(raw1, raw2 string) []string {
	if raw1 == "" || raw2 == "" {
		return nil
	}

	var details []string
	t1, ok1 := parsePickupTime(raw1)
	if !ok1 {
		details = append(details, msgPickupTime1Invalid)
	}
	t2, ok2 := parsePickupTime(raw2)
	if !ok2 {
		details = append(details, msgPickupTime2Invalid)
	}

	if ok1 && ok2 && !pickupTimesFarEnough(t1, t2) {
		details = append(details, msgPickupTimesTooClose)
	}

	return details
}

func pickupTimesFarEnough(t1, t2 time.Time) bool {
	gap := t2.Sub(t1)
	if gap < 0 {
		gap = -gap
	}
	return gap >= domain.MinPickupTimeGap
}

// parsePickupTime разбирает ISO 8601 дату-время; значения без зоны считаются UTC
func parsePickupTime(raw string) (time.Time, bool) {
	for _, layout := range pickupTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isValidPhone(phone string, format domain.PhoneFormat) bool {
	if format == domain.PhoneSwedish {
		return swedishMobileRe.MatchString(phoneStripRe.ReplaceAllString(phone, ""))
	}
	return genericPhoneRe.MatchString(phone)
}
