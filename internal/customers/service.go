// Package customers exposes a read model derived from orders. Customers are
// not stored as rows; every aggregate is computed per email at read time.
package customers

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// Summary is the per-email aggregate over all orders.
type Summary struct {
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	OrderCount      int64          `json:"orderCount"`
	TotalSpentCents int64          `json:"totalSpentCents"`
	LastOrderAt     time.Time      `json:"lastOrderAt"`
	StatusCounts    map[string]int `json:"statusCounts"`
}

// CustomerList wraps one page of summaries.
type CustomerList struct {
	Customers []Summary       `json:"customers"`
	Page      pagination.Page `json:"page"`
}

// Repository reads customer aggregates out of the orders table.
type Repository interface {
	List(ctx context.Context, params pagination.Params, query string) (*CustomerList, error)
	Summary(ctx context.Context, email string) (*Summary, error)
}

// Service answers the admin customer views.
type Service struct {
	repo Repository
}

// NewService builds a customers service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &Service{repo: repo}, nil
}

// List returns one page of customer aggregates, most recent buyer first.
func (s *Service) List(ctx context.Context, params pagination.Params, query string) (*CustomerList, error) {
	list, err := s.repo.List(ctx, params, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return list, nil
}

// Get returns the aggregate for one email.
func (s *Service) Get(ctx context.Context, email string) (*Summary, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	summary, err := s.repo.Summary(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	if summary == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return summary, nil
}
