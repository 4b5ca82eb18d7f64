package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yeezuz2020/store-api/internal/shipments"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"

	"github.com/yeezuz2020/store-api/api/responses"
	"github.com/yeezuz2020/store-api/api/validators"
)

// AdminLabelsPrintable lists orders whose labels can be printed on the given
// day. Without a date parameter it answers for today.
func AdminLabelsPrintable(svc shipments.LabelService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "labels service unavailable"))
			return
		}

		day := time.Now()
		if parsed, ok, err := validators.ParseQueryDate(r, "date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			day = parsed
		}

		orders, err := svc.ListPrintable(r.Context(), day)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders, "count": len(orders)})
	}
}

type labelBatchRequest struct {
	Date     string   `json:"date"`
	OrderIDs []string `json:"orderIds"`
}

func parseOrderIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id").
				WithDetails(map[string]any{"order_id": value})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AdminLabelsBatch renders one merged PDF of shipping labels, selected either
// by day or by explicit order ids.
func AdminLabelsBatch(svc shipments.LabelService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "labels service unavailable"))
			return
		}

		var body labelBatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := shipments.BatchInput{}
		if body.Date != "" {
			day, err := time.ParseInLocation("2006-01-02", body.Date, time.Local)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
				return
			}
			input.Date = &day
		}
		ids, err := parseOrderIDs(body.OrderIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.OrderIDs = ids

		result, err := svc.BatchPDF(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, result.Filename, result.PDF)
	}
}

type markPrintedRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1"`
}

// AdminLabelsMarkPrinted stamps orders as printed so the daily batch view
// stops offering them.
func AdminLabelsMarkPrinted(svc shipments.LabelService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "labels service unavailable"))
			return
		}

		var body markPrintedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids, err := parseOrderIDs(body.OrderIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkPrinted(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"marked": len(ids)})
	}
}
