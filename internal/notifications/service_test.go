package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/resend"
)

type stubSender struct {
	messages []resend.Message
	err      error
}

func (s *stubSender) Send(ctx context.Context, msg resend.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.messages = append(s.messages, msg)
	return "email_123", nil
}

func confirmableOrder() *models.Order {
	pickup := "Z-BOX Praha 4"
	pickupID := "1234"
	return &models.Order{
		ID:                   uuid.New(),
		OrderNumber:          "2025-042",
		CustomerEmail:        "jana@example.com",
		CustomerName:         "Jana Novakova",
		SubtotalCents:        109600,
		ShippingCents:        0,
		TotalCents:           109600,
		PacketaPickupPointID: &pickupID,
		PacketaPickupName:    &pickup,
		CreatedAt:            time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductName: "Hoodie", VariantLabel: "L", Quantity: 2, UnitPriceCents: 54800},
		},
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	sender := &stubSender{}
	svc, err := NewService(ServiceParams{Sender: sender})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.SendOrderConfirmation(context.Background(), confirmableOrder()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.messages))
	}

	msg := sender.messages[0]
	if len(msg.To) != 1 || msg.To[0] != "jana@example.com" {
		t.Fatalf("unexpected recipient %v", msg.To)
	}
	if msg.Subject != "Potvrzení objednávky #2025-042 - Yeezuz Store" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Hoodie", "Z-BOX Praha 4", "ZDARMA", "Jana Novakova"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSendStatusUpdateShippedIncludesTracking(t *testing.T) {
	sender := &stubSender{}
	svc, _ := NewService(ServiceParams{Sender: sender})

	order := confirmableOrder()
	tracking := "Z123456789"
	order.PacketaTrackingNumber = &tracking

	if err := svc.SendStatusUpdate(context.Background(), order, enums.OrderStatusShipped); err != nil {
		t.Fatalf("send: %v", err)
	}

	msg := sender.messages[0]
	if !strings.HasPrefix(msg.Subject, "Vaše objednávka byla odeslána") {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Z123456789") {
		t.Fatalf("tracking number missing from body")
	}
}

func TestSendStatusUpdateUnknownStatusFallsBack(t *testing.T) {
	sender := &stubSender{}
	svc, _ := NewService(ServiceParams{Sender: sender})

	if err := svc.SendStatusUpdate(context.Background(), confirmableOrder(), enums.OrderStatus("archived")); err != nil {
		t.Fatalf("unknown status must not fail: %v", err)
	}
	if !strings.HasPrefix(sender.messages[0].Subject, "Změna stavu objednávky") {
		t.Fatalf("unexpected subject %q", sender.messages[0].Subject)
	}
}

func TestSendFailureIsDependencyError(t *testing.T) {
	sender := &stubSender{err: errors.New("api down")}
	svc, _ := NewService(ServiceParams{Sender: sender})

	err := svc.SendOrderConfirmation(context.Background(), confirmableOrder())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	svc, _ := NewService(ServiceParams{Sender: &stubSender{}})
	order := confirmableOrder()
	order.CustomerEmail = ""

	err := svc.SendOrderConfirmation(context.Background(), order)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
