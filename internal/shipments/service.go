// Package shipments orchestrates Packeta shipment creation, tracking and the
// label batch workflow.
package shipments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/pkg/config"
	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/packeta"
)

// PacketaClient is the wire-level surface the service consumes.
type PacketaClient interface {
	CreateShipment(ctx context.Context, req packeta.ShipmentRequest) (*packeta.Shipment, error)
	LabelsPDF(ctx context.Context, packetIDs []string, format string) ([]byte, error)
	PacketStatus(ctx context.Context, packetID string) (*packeta.TrackingInfo, error)
}

// Service defines the shipment operations exposed to the admin API and the
// webhook reconciler.
type Service interface {
	Create(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CreateForOrder(ctx context.Context, order *models.Order) error
	Track(ctx context.Context, orderID uuid.UUID) (*packeta.TrackingInfo, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	OrdersRepo orders.Repository
	Client     PacketaClient
	Labels     config.LabelsConfig
	Logger     *logger.Logger
}

type service struct {
	repo   orders.Repository
	client PacketaClient
	labels config.LabelsConfig
	logg   *logger.Logger
}

// NewService builds a shipments service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Client == nil {
		return nil, fmt.Errorf("packeta client required")
	}
	return &service{
		repo:   params.OrdersRepo,
		client: params.Client,
		labels: params.Labels,
		logg:   params.Logger,
	}, nil
}

// Create loads the order and creates its shipment. Used by the admin
// POST /shipments endpoint; the status bump to processing mirrors the order
// entering fulfillment.
func (s *service) Create(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if err := s.CreateForOrder(ctx, order); err != nil {
		return nil, err
	}

	if order.Status == enums.OrderStatusPending {
		if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bumping order status")
		}
		order.Status = enums.OrderStatusProcessing
	}

	return order, nil
}

// CreateForOrder creates the Packeta packet and persists the label and
// tracking fields onto the order.
func (s *service) CreateForOrder(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if !order.HasPickupPoint() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no pickup point selected")
	}
	if order.HasLabel() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipment already exists for order")
	}

	first, last := splitName(order.CustomerName)
	req := packeta.ShipmentRequest{
		OrderNumber:   orderNumber(order),
		FirstName:     first,
		LastName:      last,
		Email:         order.CustomerEmail,
		Phone:         order.CustomerPhone,
		PickupPointID: *order.PacketaPickupPointID,
		CODCents:      0,
		ValueCents:    order.TotalCents,
		WeightGrams:   s.labels.DefaultWeightG,
	}

	shipment, err := s.client.CreateShipment(ctx, req)
	if err != nil {
		if packeta.IsFault(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "packeta rejected shipment")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating packeta shipment")
	}

	updates := map[string]any{
		"packeta_label_id":        shipment.ID,
		"packeta_tracking_number": shipment.Barcode,
	}
	if err := s.repo.Update(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting shipment fields")
	}

	order.PacketaLabelID = &shipment.ID
	order.PacketaTrackingNumber = &shipment.Barcode

	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Info(ctx, "packeta shipment created")
	}
	return nil
}

// Track passes the provider status through for one shipped order.
func (s *service) Track(ctx context.Context, orderID uuid.UUID) (*packeta.TrackingInfo, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if !order.HasLabel() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no shipment")
	}

	info, err := s.client.PacketStatus(ctx, *order.PacketaLabelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching packet status")
	}
	return info, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func orderNumber(order *models.Order) string {
	if order.OrderNumber != "" {
		return order.OrderNumber
	}
	return strings.Split(order.ID.String(), "-")[0]
}
