package stripewebhook

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/yeezuz2020/store-api/pkg/db/models"
	"github.com/yeezuz2020/store-api/pkg/enums"
)

// metadataItem mirrors the JSON line items the checkout stores in the payment
// intent metadata.
type metadataItem struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id"`
	Name           string `json:"name"`
	Variant        string `json:"variant"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func metaInt(meta map[string]string, key string) int {
	v, err := strconv.Atoi(meta[key])
	if err != nil {
		return 0
	}
	return v
}

// orderFromIntent builds a new order row from a succeeded payment intent.
// All amounts stay in minor units; the intent amount is authoritative for the
// total.
func orderFromIntent(intent *stripe.PaymentIntent, idempotencyKey string) *models.Order {
	meta := intent.Metadata

	order := &models.Order{
		OrderNumber:     meta["order_number"],
		CustomerEmail:   meta["customer_email"],
		CustomerName:    meta["customer_name"],
		CustomerPhone:   meta["customer_phone"],
		Currency:        strings.ToUpper(string(intent.Currency)),
		SubtotalCents:   metaInt(meta, "subtotal_cents"),
		ShippingCents:   metaInt(meta, "shipping_cents"),
		TotalCents:      int(intent.Amount),
		Status:          enums.OrderStatusPaid,
		PaymentStatus:   enums.PaymentStatusPaid,
		IdempotencyKey:  idempotencyKey,
		StripePaymentID: intent.ID,

		ShippingAddress:      strPtr(meta["shipping_address"]),
		PacketaPickupPointID: strPtr(meta["packeta_pickup_point_id"]),
		PacketaPickupName:    strPtr(meta["packeta_pickup_point_name"]),
		PacketaPickupAddress: strPtr(meta["packeta_pickup_point_address"]),
	}

	if method, err := enums.ParseShippingMethod(meta["shipping_method"]); err == nil {
		order.ShippingMethod = method
	} else if order.PacketaPickupPointID != nil {
		order.ShippingMethod = enums.ShippingMethodPacketa
	}

	if order.SubtotalCents == 0 {
		order.SubtotalCents = order.TotalCents - order.ShippingCents
	}

	if raw := meta["items"]; raw != "" {
		var items []metadataItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, it := range items {
				line := models.OrderItem{
					ProductName:    it.Name,
					VariantLabel:   it.Variant,
					Quantity:       it.Quantity,
					UnitPriceCents: it.UnitPriceCents,
				}
				if id, err := uuid.Parse(it.ProductID); err == nil {
					line.ProductID = &id
				}
				if id, err := uuid.Parse(it.VariantID); err == nil {
					line.VariantID = &id
				}
				order.Items = append(order.Items, line)
			}
		}
	}

	return order
}
