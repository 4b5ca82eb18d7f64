package customers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers read repository over the orders table.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type summaryRow struct {
	Email           string
	Name            string
	OrderCount      int64
	TotalSpentCents int64
	LastOrderAt     time.Time
}

func (r *repository) List(ctx context.Context, params pagination.Params, query string) (*CustomerList, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`customer_email AS email,
			MAX(customer_name) AS name,
			COUNT(*) AS order_count,
			COALESCE(SUM(total_cents), 0) AS total_spent_cents,
			MAX(created_at) AS last_order_at`).
		Group("customer_email")
	if query != "" {
		base = base.Where("customer_email LIKE ? OR customer_name LIKE ?", "%"+query+"%", "%"+query+"%")
	}

	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS customers", base).Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []summaryRow
	err := base.
		Order("last_order_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summary := Summary{
			Email:           row.Email,
			Name:            row.Name,
			OrderCount:      row.OrderCount,
			TotalSpentCents: row.TotalSpentCents,
			LastOrderAt:     row.LastOrderAt,
		}
		counts, err := r.statusCounts(ctx, row.Email)
		if err != nil {
			return nil, err
		}
		summary.StatusCounts = counts
		summaries = append(summaries, summary)
	}

	return &CustomerList{Customers: summaries, Page: params.Describe(total)}, nil
}

func (r *repository) Summary(ctx context.Context, email string) (*Summary, error) {
	var row summaryRow
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`customer_email AS email,
			MAX(customer_name) AS name,
			COUNT(*) AS order_count,
			COALESCE(SUM(total_cents), 0) AS total_spent_cents,
			MAX(created_at) AS last_order_at`).
		Where("customer_email = ?", email).
		Group("customer_email").
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	counts, err := r.statusCounts(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Email:           row.Email,
		Name:            row.Name,
		OrderCount:      row.OrderCount,
		TotalSpentCents: row.TotalSpentCents,
		LastOrderAt:     row.LastOrderAt,
		StatusCounts:    counts,
	}, nil
}

type statusRow struct {
	Status string
	Count  int
}

func (r *repository) statusCounts(ctx context.Context, email string) (map[string]int, error) {
	var rows []statusRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("customer_email = ?", email).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
