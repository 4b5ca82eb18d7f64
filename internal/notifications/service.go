// Package notifications renders and sends transactional order emails.
package notifications

import (
	"context"
	"fmt"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/resend"
)

// Service sends the two transactional order emails. Each call is one
// best-effort external send with no retry or queueing.
type Service interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendStatusUpdate(ctx context.Context, order *models.Order, status enums.OrderStatus) error
	SendStatusUpdateWithMessage(ctx context.Context, order *models.Order, status enums.OrderStatus, message string) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Sender resend.Sender
	Logger *logger.Logger
}

type service struct {
	sender resend.Sender
	logg   *logger.Logger
}

// NewService builds the email notification service.
func NewService(params ServiceParams) (Service, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	return &service{sender: params.Sender, logg: params.Logger}, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if order == nil || order.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order with customer email required")
	}

	html, err := renderConfirmation(order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering confirmation email")
	}

	id, err := s.sender.Send(ctx, resend.Message{
		To:      []string{order.CustomerEmail},
		Subject: confirmationSubject(order),
		HTML:    html,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending confirmation email")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"email_id": id,
		})
		s.logg.Info(ctx, "order confirmation email sent")
	}
	return nil
}

func (s *service) SendStatusUpdate(ctx context.Context, order *models.Order, status enums.OrderStatus) error {
	return s.SendStatusUpdateWithMessage(ctx, order, status, "")
}

func (s *service) SendStatusUpdateWithMessage(ctx context.Context, order *models.Order, status enums.OrderStatus, message string) error {
	if order == nil || order.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order with customer email required")
	}

	html, err := renderStatusUpdate(order, status, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering status email")
	}

	id, err := s.sender.Send(ctx, resend.Message{
		To:      []string{order.CustomerEmail},
		Subject: statusSubject(order, status),
		HTML:    html,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sending status email")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"email_id": id,
			"status":   status.String(),
		})
		s.logg.Info(ctx, "status update email sent")
	}
	return nil
}
