package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"codboost/internal/delivery/kafka"
	"codboost/internal/models"

	"github.com/sirupsen/logrus"
)

type SettingsReader interface {
	GetSettings(shopDomain string) (models.Settings, error)
}

// Notifier consumes order events and emails the customer and the merchant
// according to the shop's notification toggles.
type Notifier struct {
	settings SettingsReader
	sender   Sender
}

func NewNotifier(settings SettingsReader, sender Sender) *Notifier {
	return &Notifier{settings: settings, sender: sender}
}

func (n *Notifier) HandleMessage(ctx context.Context, payload []byte) error {
	var ev models.OrderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: decode order event: %v", kafka.ErrNonRetryable, err)
	}
	if ev.ShopDomain == "" {
		return fmt.Errorf("%w: event without shop domain", kafka.ErrNonRetryable)
	}

	settings, err := n.settings.GetSettings(ev.ShopDomain)
	if err != nil {
		return err
	}
	if !emailConfigured(settings) {
		logrus.WithField("shop", ev.ShopDomain).Debug("email not configured, skipping notification")
		return nil
	}
	from, err := senderAddress(settings)
	if err != nil {
		return nil
	}

	switch ev.Type {
	case models.EventOrderCreated:
		return n.onOrderCreated(settings, from, ev.Order)
	case models.EventOrderStatusChanged:
		return n.onStatusChanged(settings, from, ev.Order)
	default:
		logrus.WithField("type", ev.Type).Warn("unknown order event type")
		return nil
	}
}

func (n *Notifier) onOrderCreated(s models.Settings, from string, order models.CodOrder) error {
	if s.Notifications.CustomerConfirmation && order.CustomerEmail != "" {
		subject := fmt.Sprintf("Confirmation de votre commande %s", order.OrderNumber)
		body := customerConfirmationBody(s, order)
		if err := n.sender.Send(s.Email, from, []string{order.CustomerEmail}, subject, body); err != nil {
			return err
		}
	}

	if s.Notifications.AdminNotification && len(s.Notifications.AdminEmails) > 0 {
		subject := fmt.Sprintf("Nouvelle commande COD %s", order.OrderNumber)
		body := adminNotificationBody(order)
		if err := n.sender.Send(s.Email, from, s.Notifications.AdminEmails, subject, body); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) onStatusChanged(s models.Settings, from string, order models.CodOrder) error {
	if order.Status != models.StatusDelivered || !s.Notifications.CustomerShipped || order.CustomerEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Votre commande %s a été livrée", order.OrderNumber)
	body := fmt.Sprintf("Bonjour %s,\n\nVotre commande %s a bien été livrée. Merci pour votre confiance !\n",
		order.CustomerName, order.OrderNumber)
	return n.sender.Send(s.Email, from, []string{order.CustomerEmail}, subject, body)
}

func customerConfirmationBody(s models.Settings, order models.CodOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", order.CustomerName)
	fmt.Fprintf(&b, "%s\n\n", s.Notifications.ConfirmationMessage)
	fmt.Fprintf(&b, "Commande %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Produit : %s x%d\n", order.ProductTitle, order.Quantity)
	fmt.Fprintf(&b, "Sous-total : %.2f\n", order.Subtotal)
	fmt.Fprintf(&b, "Livraison : %.2f\n", order.DeliveryFee)
	fmt.Fprintf(&b, "Total à payer à la livraison : %.2f\n\n", order.Total)
	fmt.Fprintf(&b, "Adresse de livraison : %s, %s\n\n", order.DeliveryAddress, order.DeliveryCity)
	fmt.Fprintf(&b, "%s\n", s.Notifications.PaymentInstructions)
	return b.String()
}

func adminNotificationBody(order models.CodOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouvelle commande COD %s\n\n", order.OrderNumber)
	fmt.Fprintf(&b, "Client : %s (%s)\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Produit : %s x%d\n", order.ProductTitle, order.Quantity)
	fmt.Fprintf(&b, "Total : %.2f\n", order.Total)
	fmt.Fprintf(&b, "Adresse : %s, %s\n", order.DeliveryAddress, order.DeliveryCity)
	if order.OrderNotes != "" {
		fmt.Fprintf(&b, "Notes : %s\n", order.OrderNotes)
	}
	return b.String()
}
