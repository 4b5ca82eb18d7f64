package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	internalorders "github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"
	"github.com/yeezuz2020/store-api/pkg/pagination"

	"github.com/yeezuz2020/store-api/api/responses"
	"github.com/yeezuz2020/store-api/api/validators"
)

func parseOrderFilters(r *http.Request) (internalorders.Filters, error) {
	var filters internalorders.Filters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("paymentStatus")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}
	if from, ok, err := validators.ParseQueryDate(r, "dateFrom"); err != nil {
		return filters, err
	} else if ok {
		filters.DateFrom = &from
	}
	if to, ok, err := validators.ParseQueryDate(r, "dateTo"); err != nil {
		return filters, err
	} else if ok {
		end := to.AddDate(0, 0, 1)
		filters.DateTo = &end
	}
	filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))
	return filters, nil
}

func parsePageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Normalize(page, limit), nil
}

// AdminOrders lists orders newest first with optional status, payment status,
// date range and free-text filters.
func AdminOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns one order with its items.
func AdminOrderDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderStatus applies an admin-initiated status change. Disallowed
// transitions come back as a 422 with the attempted edge in the details.
func AdminOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), internalorders.StatusUpdateInput{
			OrderID: strings.TrimSpace(chi.URLParam(r, "orderId")),
			Status:  body.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
