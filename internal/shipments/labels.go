package shipments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/pkg/config"
	"github.com/yeezuz2020/store-api/pkg/db/models"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
)

// BatchInput selects orders for one label print run: either an explicit id
// list or a local calendar day, not both.
type BatchInput struct {
	Date     *time.Time
	OrderIDs []uuid.UUID
}

// BatchResult is one collated label document.
type BatchResult struct {
	PDF      []byte
	Filename string
	Orders   []models.Order
}

// LabelService drives the label print workflow.
type LabelService interface {
	ListPrintable(ctx context.Context, day time.Time) ([]models.Order, error)
	BatchPDF(ctx context.Context, input BatchInput) (*BatchResult, error)
	MarkPrinted(ctx context.Context, orderIDs []uuid.UUID) error
}

// LabelServiceParams carries the label workflow dependencies.
type LabelServiceParams struct {
	OrdersRepo orders.Repository
	Client     PacketaClient
	Labels     config.LabelsConfig
	Logger     *logger.Logger
	Now        func() time.Time
}

type labelService struct {
	repo   orders.Repository
	client PacketaClient
	labels config.LabelsConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewLabelService builds the label batch workflow.
func NewLabelService(params LabelServiceParams) (LabelService, error) {
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Client == nil {
		return nil, fmt.Errorf("packeta client required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &labelService{
		repo:   params.OrdersRepo,
		client: params.Client,
		labels: params.Labels,
		logg:   params.Logger,
		now:    now,
	}, nil
}

// dayWindow returns the closed local calendar-day window for a date.
func dayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

func (s *labelService) ListPrintable(ctx context.Context, day time.Time) ([]models.Order, error) {
	from, to := dayWindow(day)
	rows, err := s.repo.FindPrintableInWindow(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing printable orders")
	}
	return rows, nil
}

func (s *labelService) BatchPDF(ctx context.Context, input BatchInput) (*BatchResult, error) {
	var (
		eligible []models.Order
		suffix   string
		err      error
	)

	switch {
	case input.Date != nil:
		eligible, err = s.ListPrintable(ctx, *input.Date)
		suffix = input.Date.Format("2006-01-02")
	case len(input.OrderIDs) > 0:
		eligible, err = s.repo.FindWithLabelsByIDs(ctx, input.OrderIDs)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading selected orders")
		}
		suffix = "selected"
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date or orderIds required")
	}
	if err != nil {
		return nil, err
	}

	if len(eligible) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no printable orders")
	}

	packetIDs := make([]string, 0, len(eligible))
	for _, order := range eligible {
		packetIDs = append(packetIDs, *order.PacketaLabelID)
	}

	pdf, err := s.client.LabelsPDF(ctx, packetIDs, s.labels.Format)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching label document")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"labels": len(packetIDs)})
		s.logg.Info(ctx, "label batch collated")
	}

	return &BatchResult{
		PDF:      pdf,
		Filename: fmt.Sprintf("packeta-labels-%s.pdf", suffix),
		Orders:   eligible,
	}, nil
}

// MarkPrinted bulk-sets the printed flag and timestamp. Re-marking an already
// printed order is harmless.
func (s *labelService) MarkPrinted(ctx context.Context, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "orderIds required")
	}

	if err := s.repo.MarkPrinted(ctx, orderIDs, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking orders printed")
	}
	return nil
}
