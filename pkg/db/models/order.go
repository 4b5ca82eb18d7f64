package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/pkg/enums"
)

// Order represents one customer purchase. Money columns hold integer minor
// units (haléře); division by 100 happens only at display boundaries.
type Order struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string    `gorm:"column:order_number"`

	CustomerEmail string `gorm:"column:customer_email;not null"`
	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerPhone string `gorm:"column:customer_phone"`

	Currency      string `gorm:"column:currency;not null;default:'CZK'"`
	SubtotalCents int    `gorm:"column:subtotal_cents;not null;default:0"`
	ShippingCents int    `gorm:"column:shipping_cents;not null;default:0"`
	TotalCents    int    `gorm:"column:total_cents;not null"`

	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`

	// IdempotencyKey correlates a checkout attempt with exactly one order row.
	// A unique index backs the webhook creation race guard.
	IdempotencyKey  string `gorm:"column:idempotency_key;uniqueIndex:orders_idempotency_key_key"`
	StripePaymentID string `gorm:"column:stripe_payment_id"`

	ShippingMethod        enums.ShippingMethod `gorm:"column:shipping_method;type:text"`
	ShippingAddress       *string              `gorm:"column:shipping_address"`
	PacketaPickupPointID  *string              `gorm:"column:packeta_pickup_point_id"`
	PacketaPickupName     *string              `gorm:"column:packeta_pickup_point_name"`
	PacketaPickupAddress  *string              `gorm:"column:packeta_pickup_point_address"`
	PacketaLabelID        *string              `gorm:"column:packeta_label_id"`
	PacketaTrackingNumber *string              `gorm:"column:packeta_tracking_number"`
	PacketaPrinted        bool                 `gorm:"column:packeta_printed;not null;default:false"`
	PacketaPrintedAt      *time.Time           `gorm:"column:packeta_printed_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPickupPoint reports whether locker delivery was selected.
func (o *Order) HasPickupPoint() bool {
	return o != nil && o.PacketaPickupPointID != nil && *o.PacketaPickupPointID != ""
}

// HasLabel reports whether a Packeta shipment already exists for the order.
func (o *Order) HasLabel() bool {
	return o != nil && o.PacketaLabelID != nil && *o.PacketaLabelID != ""
}
