package orders

import (
	"time"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
	"github.com/yeezuz2020/store-api/pkg/pagination"
)

// Filters describe the inputs supported by the admin orders list.
type Filters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	CustomerEmail string
	Query         string
}

// OrderList wraps one page of orders plus its page envelope.
type OrderList struct {
	Orders []models.Order  `json:"orders"`
	Page   pagination.Page `json:"page"`
}

// StatusUpdateInput carries an admin-initiated status change.
type StatusUpdateInput struct {
	OrderID string
	Status  string
}
