package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// StatusNotifier delivers the status-update email after a successful manual
// transition. Failures are logged, never surfaced.
type StatusNotifier interface {
	SendStatusUpdate(ctx context.Context, order *models.Order, status enums.OrderStatus) error
}

// Service defines admin order operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Order, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo     Repository
	Notifier StatusNotifier
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	notifier StatusNotifier
	logg     *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		repo:     params.Repo,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Order, error) {
	orderID, err := uuid.Parse(input.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid")
	}

	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": input.Status})
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return order, nil
	}

	if !CanTransition(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]any{"from": order.Status, "to": target})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = target

	if s.notifier != nil {
		if err := s.notifier.SendStatusUpdate(ctx, order, target); err != nil && s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, orderID.String())
			s.logg.Warn(ctx, "status update email failed: "+err.Error())
		}
	}

	return order, nil
}
