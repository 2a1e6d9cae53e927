// Package notify hands placed orders over to humans: a WhatsApp deep link the
// customer opens to confirm, and an optional Telegram alert to the kitchen.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"elbasta-backend/models"
)

const algeriaCountryCode = "213"

// InternationalNumber turns a local (0555…) or prefixed (+213…, 00213…)
// number into the digits-only form wa.me expects.
func InternationalNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		return digits[2:]
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		return algeriaCountryCode + digits[1:]
	}
	return digits
}

func methodLabel(m models.DeliveryMethod) string {
	switch m {
	case models.MethodDelivery:
		return "Livraison"
	case models.MethodPickup:
		return "Sur place"
	}
	return string(m)
}

func formatDA(amount int) string {
	return fmt.Sprintf("%d DA", amount)
}

// OrderSummary renders the order as the French text sent to the restaurant.
func OrderSummary(o models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Nouvelle commande %s\n", o.TrackingID)
	fmt.Fprintf(&b, "Client : %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Téléphone : %s\n", o.Phone)
	fmt.Fprintf(&b, "Mode : %s\n", methodLabel(o.Method))
	if o.LocationName != "" {
		fmt.Fprintf(&b, "Point de vente : %s\n", o.LocationName)
	}
	if o.Method == models.MethodDelivery {
		fmt.Fprintf(&b, "Adresse : %s\n", o.Address)
		if o.Latitude != nil && o.Longitude != nil {
			fmt.Fprintf(&b, "Position : https://maps.google.com/?q=%.6f,%.6f\n", *o.Latitude, *o.Longitude)
		}
	}

	b.WriteString("\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%d x %s = %s\n", item.Quantity, item.Name, formatDA(item.LineTotal()))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Sous-total : %s\n", formatDA(o.Subtotal))
	fmt.Fprintf(&b, "Frais de service : %s\n", formatDA(o.ServiceFees))
	if o.Method == models.MethodDelivery {
		fmt.Fprintf(&b, "Frais de livraison : %s\n", formatDA(o.DeliveryFee))
	}
	fmt.Fprintf(&b, "Total : %s\n", formatDA(o.Total))

	if o.Notes != "" {
		fmt.Fprintf(&b, "Notes : %s\n", o.Notes)
	}
	fmt.Fprintf(&b, "Suivi : %s", o.TrackingID)

	return b.String()
}

// WhatsAppLink returns the wa.me link that opens a chat with number prefilled
// with the order summary.
func WhatsAppLink(number string, o models.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(OrderSummary(o)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", InternationalNumber(number), text)
}
