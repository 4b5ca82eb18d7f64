package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/internal/shipments"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/packeta"

	"github.com/yeezuz2020/store-api/api/responses"
	"github.com/yeezuz2020/store-api/api/validators"
)

type packetStatusGetter interface {
	PacketStatus(ctx context.Context, packetID string) (*packeta.TrackingInfo, error)
}

type createShipmentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// AdminShipmentCreate creates a Packeta shipment for one order.
func AdminShipmentCreate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}

		var req createShipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "orderId must be a valid uuid"))
			return
		}

		order, err := svc.Create(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderTracking returns the live Packeta status for one order's shipment.
func AdminOrderTracking(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipments service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.Track(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// AdminShipmentTrack is a passthrough lookup by raw packet id.
func AdminShipmentTrack(client packetStatusGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packeta client unavailable"))
			return
		}

		packetID := strings.TrimSpace(r.URL.Query().Get("packetId"))
		if packetID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "packetId is required"))
			return
		}

		info, err := client.PacketStatus(r.Context(), packetID)
		if err != nil {
			if packeta.IsFault(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "packeta status lookup"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "packeta unreachable"))
			return
		}
		responses.WriteSuccess(w, info)
	}
}
