package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

type stubOrdersRepo struct {
	orders        map[uuid.UUID]*models.Order
	updatedStatus *enums.OrderStatus
	updateErr     error
}

func newStubOrdersRepo(orders ...*models.Order) *stubOrdersRepo {
	s := &stubOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.IdempotencyKey == key {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	rows := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		rows = append(rows, *o)
	}
	return &OrderList{Orders: rows, Page: params.Describe(int64(len(rows)))}, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	o, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	s.updatedStatus = &status
	return nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubOrdersRepo) FindPrintableInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) FindWithLabelsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) MarkPrinted(ctx context.Context, ids []uuid.UUID, printedAt time.Time) error {
	return nil
}

type stubStatusNotifier struct {
	calls int
	err   error
}

func (s *stubStatusNotifier) SendStatusUpdate(ctx context.Context, order *models.Order, status enums.OrderStatus) error {
	s.calls++
	return s.err
}

func newTestOrder(status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerEmail: "jana@example.com",
		CustomerName:  "Jana Novakova",
		TotalCents:    250000,
		Status:        status,
		PaymentStatus: enums.PaymentStatusPaid,
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	order := newTestOrder(enums.OrderStatusPaid)
	repo := newStubOrdersRepo(order)
	notifier := &stubStatusNotifier{}
	svc, err := NewService(ServiceParams{Repo: repo, Notifier: notifier})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID.String(),
		Status:  "shipped",
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("status = %s", updated.Status)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected 1 notification, got %d", notifier.calls)
	}
}

func TestUpdateStatusRejectsBogusValue(t *testing.T) {
	order := newTestOrder(enums.OrderStatusPaid)
	repo := newStubOrdersRepo(order)
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID.String(),
		Status:  "bogus",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if order.Status != enums.OrderStatusPaid {
		t.Fatalf("status mutated on invalid input")
	}
}

func TestUpdateStatusRejectsDisallowedTransition(t *testing.T) {
	order := newTestOrder(enums.OrderStatusDelivered)
	repo := newStubOrdersRepo(order)
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID.String(),
		Status:  "pending",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.updatedStatus != nil {
		t.Fatalf("repo mutated on disallowed transition")
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: uuid.NewString(),
		Status:  "shipped",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusEmailFailureDoesNotRollBack(t *testing.T) {
	order := newTestOrder(enums.OrderStatusPaid)
	repo := newStubOrdersRepo(order)
	notifier := &stubStatusNotifier{err: errors.New("smtp down")}
	svc, _ := NewService(ServiceParams{Repo: repo, Notifier: notifier})

	updated, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID.String(),
		Status:  "shipped",
	})
	if err != nil {
		t.Fatalf("email failure must not surface: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("status = %s", updated.Status)
	}
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	order := newTestOrder(enums.OrderStatusShipped)
	repo := newStubOrdersRepo(order)
	notifier := &stubStatusNotifier{}
	svc, _ := NewService(ServiceParams{Repo: repo, Notifier: notifier})

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID.String(),
		Status:  "shipped",
	})
	if err != nil {
		t.Fatalf("same-status update: %v", err)
	}
	if repo.updatedStatus != nil || notifier.calls != 0 {
		t.Fatalf("no-op must not write or email")
	}
}
