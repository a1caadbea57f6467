package notifications

import (
	"strings"

	"github.com/m04kA/SMC-PantBookingService/internal/domain"
)

const (
	smsHeader     = "Ny panthämtning!"
	smsFooter     = "Skickat från hemsidan"
	webhookHeader = "## ♻️ Ny panthämtning"
)

type line struct {
	label string
	value string
}

// bookingLines строки сообщения; пустые необязательные поля пропускаются
func bookingLines(b *domain.Booking) []line {
	p := b.Payload

	payout := p.PayoutMethod
	if p.IsSwishPayout() && p.SwishNumber != "" {
		payout = "Swish (" + p.SwishNumber + ")"
	}

	deposit := p.DepositAmount
	if deposit != "" {
		deposit += " kr"
	}

	lines := []line{
		{"Namn", p.Name},
		{"Adress", p.Address},
		{"Postnummer", p.PostalCode},
		{"Ort", p.City},
		{"Telefon", p.Phone},
		{"Önskad tid", p.DesiredPickupTime},
		{"Tid 1", p.PickupTime1},
		{"Tid 2", p.PickupTime2},
		{"Antal påsar", p.BagCount},
		{"Pantbelopp", deposit},
		{"Utbetalning", payout},
		{"Meddelande", p.Message},
		{"Bokningsnummer", b.ServerID},
	}

	result := lines[:0]
	for _, l := range lines {
		if l.value != "" {
			result = append(result, l)
		}
	}
	return result
}

// ComposeSMS текст SMS владельцу
func ComposeSMS(b *domain.Booking) string {
	var sb strings.Builder
	sb.WriteString(smsHeader)
	sb.WriteString("\n")
	for _, l := range bookingLines(b) {
		sb.WriteString(l.label)
		sb.WriteString(": ")
		sb.WriteString(l.value)
		sb.WriteString("\n")
	}
	sb.WriteString(smsFooter)
	return sb.String()
}

// ComposeWebhook markdown-сообщение для чата
func ComposeWebhook(b *domain.Booking) string {
	var sb strings.Builder
	sb.WriteString(webhookHeader)
	for _, l := range bookingLines(b) {
		sb.WriteString("\n**")
		sb.WriteString(l.label)
		sb.WriteString(":** ")
		sb.WriteString(l.value)
	}
	return sb.String()
}
