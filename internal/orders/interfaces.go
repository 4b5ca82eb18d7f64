package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindPrintableInWindow(ctx context.Context, from, to time.Time) ([]models.Order, error)
	FindWithLabelsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error)
	MarkPrinted(ctx context.Context, ids []uuid.UUID, printedAt time.Time) error
}
