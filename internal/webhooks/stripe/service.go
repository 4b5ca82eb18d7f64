// Package stripewebhook reconciles inbound payment events with persisted
// order state.
package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/pkg/db"
	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
)

const idempotencyConstraint = "orders_idempotency_key_key"

// ShipmentCreator creates a locker shipment for a freshly materialized order
// and persists the resulting label and tracking fields.
type ShipmentCreator interface {
	CreateForOrder(ctx context.Context, order *models.Order) error
}

// ConfirmationSender delivers the order confirmation email.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// ServiceParams carries the reconciler dependencies. Shipments and Emails are
// optional; a nil value disables that side effect.
type ServiceParams struct {
	OrdersRepo orders.Repository
	Shipments  ShipmentCreator
	Emails     ConfirmationSender
	Guard      *IdempotencyGuard
	Logger     *logger.Logger
}

// Service maps payment events onto order rows, exactly once per idempotency
// key.
type Service struct {
	repo      orders.Repository
	shipments ShipmentCreator
	emails    ConfirmationSender
	guard     *IdempotencyGuard
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &Service{
		repo:      params.OrdersRepo,
		shipments: params.Shipments,
		emails:    params.Emails,
		guard:     params.Guard,
		logg:      params.Logger,
	}, nil
}

// HandleEvent processes one verified event. A nil return acknowledges the
// delivery; only a primary persistence failure returns an error eligible for
// processor-side retry.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	if s.logg != nil {
		ctx = s.logg.WithEventID(ctx, event.ID)
	}

	marked := false
	if s.guard != nil && event.ID != "" {
		seen, err := s.guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			// the storage-level unique key still protects against duplicates
			if s.logg != nil {
				s.logg.Warn(ctx, "event replay guard unavailable: "+err.Error())
			}
		} else if seen {
			if s.logg != nil {
				s.logg.Info(ctx, "duplicate event delivery skipped")
			}
			return nil
		} else {
			marked = true
		}
	}

	err := s.dispatch(ctx, event)
	if err != nil && marked {
		// release the event id so the processor's retry is not mistaken for
		// a duplicate of a delivery that never landed
		if delErr := s.guard.Delete(ctx, event.ID); delErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "release event replay guard: "+delErr.Error())
		}
	}
	return err
}

func (s *Service) dispatch(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.handleSucceeded(ctx, intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.updatePaymentState(ctx, intent, enums.PaymentStatusFailed, enums.OrderStatusCancelled)
	case stripe.EventTypePaymentIntentProcessing:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.updatePaymentState(ctx, intent, enums.PaymentStatusProcessing, enums.OrderStatusPending)
	case stripe.EventTypePaymentIntentRequiresAction:
		intent, err := decodeIntent(event)
		if err != nil {
			return err
		}
		return s.updatePaymentState(ctx, intent, enums.PaymentStatusRequiresAction, enums.OrderStatusPending)
	default:
		if s.logg != nil {
			s.logg.Info(ctx, "unhandled event type "+string(event.Type))
		}
		return nil
	}
}

func decodeIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}
	return &intent, nil
}

func (s *Service) handleSucceeded(ctx context.Context, intent *stripe.PaymentIntent) error {
	key := intent.Metadata["idempotency_key"]
	if key == "" {
		if s.logg != nil {
			s.logg.Warn(ctx, "payment intent missing idempotency key, skipping")
		}
		return nil
	}

	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up order")
	}

	if existing != nil {
		if existing.StripePaymentID != "" {
			if s.logg != nil {
				ctx = s.logg.WithOrderID(ctx, existing.ID.String())
				s.logg.Info(ctx, "duplicate succeeded event, order already materialized")
			}
			return nil
		}
		updates := map[string]any{
			"stripe_payment_id": intent.ID,
			"status":            enums.OrderStatusPaid,
			"payment_status":    enums.PaymentStatusPaid,
		}
		if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirming existing order")
		}
		return nil
	}

	order := orderFromIntent(intent, key)
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, idempotencyConstraint) {
			// lost the create race; the first writer owns the side effects
			if s.logg != nil {
				s.logg.Info(ctx, "concurrent order creation detected, treating as duplicate")
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, created.ID.String())
		s.logg.Info(ctx, "order materialized from payment event")
	}

	if s.shipments != nil && created.HasPickupPoint() {
		if err := s.shipments.CreateForOrder(ctx, created); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "shipment creation failed, retryable out-of-band: "+err.Error())
		}
	}

	if s.emails != nil {
		if err := s.emails.SendOrderConfirmation(ctx, created); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "confirmation email failed: "+err.Error())
		}
	}

	return nil
}

func (s *Service) updatePaymentState(ctx context.Context, intent *stripe.PaymentIntent, payment enums.PaymentStatus, status enums.OrderStatus) error {
	key := intent.Metadata["idempotency_key"]
	if key == "" {
		if s.logg != nil {
			s.logg.Warn(ctx, "payment intent missing idempotency key, skipping")
		}
		return nil
	}

	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logg != nil {
				s.logg.Info(ctx, "no order for payment state "+payment.String()+", nothing to update")
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up order")
	}

	updates := map[string]any{
		"payment_status": payment,
		"status":         status,
	}
	if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment state")
	}
	return nil
}
