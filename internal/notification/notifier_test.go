package notification

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"codboost/internal/delivery/kafka"
	"codboost/internal/models"
)

type sentMail struct {
	from    string
	to      []string
	subject string
	body    string
}

type senderSpy struct {
	sent []sentMail
	err  error
}

func (s *senderSpy) Send(_ models.EmailSettings, from string, to []string, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{from: from, to: to, subject: subject, body: body})
	return nil
}

type settingsReaderStub struct {
	settings models.Settings
}

func (s settingsReaderStub) GetSettings(string) (models.Settings, error) {
	return s.settings, nil
}

func configuredSettings() models.Settings {
	s := models.DefaultSettings()
	s.General.CompanyName = "RT Solutions"
	s.Email.GmailAddress = "shop@example.com"
	s.Email.GmailPassword = "app-password"
	s.Notifications.AdminEmails = []string{"admin@example.com"}
	return s
}

func eventPayload(t *testing.T, ev models.OrderEvent) []byte {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return raw
}

func deliveredOrder() models.CodOrder {
	return models.CodOrder{
		ID:            7,
		OrderNumber:   "1033",
		ProductTitle:  "Argan Oil 100ml",
		Quantity:      2,
		Subtotal:      200,
		DeliveryFee:   30,
		Total:         230,
		CustomerName:  "Ahmed Bennani",
		CustomerPhone: "0612345678",
		CustomerEmail: "ahmed@example.com",

		DeliveryAddress: "12 Rue Example",
		DeliveryCity:    "Casablanca",
		Status:          models.StatusPending,
	}
}

func TestHandleMessage_OrderCreatedSendsCustomerAndAdminMail(t *testing.T) {
	spy := &senderSpy{}
	n := NewNotifier(settingsReaderStub{settings: configuredSettings()}, spy)

	ev := models.OrderEvent{
		Type:       models.EventOrderCreated,
		ShopDomain: "rt-solutions-test.myshopify.com",
		Order:      deliveredOrder(),
	}
	require.NoError(t, n.HandleMessage(context.Background(), eventPayload(t, ev)))

	require.Len(t, spy.sent, 2)
	require.Equal(t, []string{"ahmed@example.com"}, spy.sent[0].to)
	require.Contains(t, spy.sent[0].subject, "1033")
	require.Contains(t, spy.sent[0].body, "230.00")
	require.Contains(t, spy.sent[0].from, "shop@example.com")

	require.Equal(t, []string{"admin@example.com"}, spy.sent[1].to)
	require.Contains(t, spy.sent[1].body, "0612345678")
}

func TestHandleMessage_NoCustomerEmailSkipsConfirmation(t *testing.T) {
	spy := &senderSpy{}
	n := NewNotifier(settingsReaderStub{settings: configuredSettings()}, spy)

	order := deliveredOrder()
	order.CustomerEmail = ""
	ev := models.OrderEvent{
		Type:       models.EventOrderCreated,
		ShopDomain: "rt-solutions-test.myshopify.com",
		Order:      order,
	}
	require.NoError(t, n.HandleMessage(context.Background(), eventPayload(t, ev)))

	require.Len(t, spy.sent, 1, "only the admin notification goes out")
	require.Equal(t, []string{"admin@example.com"}, spy.sent[0].to)
}

func TestHandleMessage_DeliveredNotifiesCustomer(t *testing.T) {
	settings := configuredSettings()
	settings.Notifications.CustomerShipped = true

	spy := &senderSpy{}
	n := NewNotifier(settingsReaderStub{settings: settings}, spy)

	order := deliveredOrder()
	order.Status = models.StatusDelivered
	ev := models.OrderEvent{
		Type:           models.EventOrderStatusChanged,
		ShopDomain:     "rt-solutions-test.myshopify.com",
		Order:          order,
		PreviousStatus: models.StatusConfirmed,
	}
	require.NoError(t, n.HandleMessage(context.Background(), eventPayload(t, ev)))

	require.Len(t, spy.sent, 1)
	require.Contains(t, spy.sent[0].subject, "livrée")
}

func TestHandleMessage_StatusChangeWithoutToggleIsSilent(t *testing.T) {
	spy := &senderSpy{}
	n := NewNotifier(settingsReaderStub{settings: configuredSettings()}, spy)

	order := deliveredOrder()
	order.Status = models.StatusConfirmed
	ev := models.OrderEvent{
		Type:       models.EventOrderStatusChanged,
		ShopDomain: "rt-solutions-test.myshopify.com",
		Order:      order,
	}
	require.NoError(t, n.HandleMessage(context.Background(), eventPayload(t, ev)))
	require.Empty(t, spy.sent)
}

func TestHandleMessage_UnconfiguredEmailIsNoop(t *testing.T) {
	spy := &senderSpy{}
	n := NewNotifier(settingsReaderStub{settings: models.DefaultSettings()}, spy)

	ev := models.OrderEvent{
		Type:       models.EventOrderCreated,
		ShopDomain: "rt-solutions-test.myshopify.com",
		Order:      deliveredOrder(),
	}
	require.NoError(t, n.HandleMessage(context.Background(), eventPayload(t, ev)))
	require.Empty(t, spy.sent)
}

func TestHandleMessage_MalformedPayloadIsNonRetryable(t *testing.T) {
	n := NewNotifier(settingsReaderStub{settings: configuredSettings()}, &senderSpy{})

	err := n.HandleMessage(context.Background(), []byte("not json"))
	require.ErrorIs(t, err, kafka.ErrNonRetryable)

	err = n.HandleMessage(context.Background(), []byte(`{"type":"order.created"}`))
	require.ErrorIs(t, err, kafka.ErrNonRetryable, "events without a shop domain cannot be redelivered usefully")
}

func TestSenderAddress(t *testing.T) {
	s := configuredSettings()
	from, err := senderAddress(s)
	require.NoError(t, err)
	require.Equal(t, `"RT Solutions" <shop@example.com>`, from)

	s.General.CompanyName = ""
	from, err = senderAddress(s)
	require.NoError(t, err)
	require.Equal(t, "shop@example.com", from)

	_, err = senderAddress(models.DefaultSettings())
	require.ErrorIs(t, err, ErrNotConfigured)
}
