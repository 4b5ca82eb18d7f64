package controllers

import (
	"net/http"

	"github.com/yeezuz2020/store-api/internal/notifications"
	internalorders "github.com/yeezuz2020/store-api/internal/orders"
	"github.com/yeezuz2020/store-api/pkg/enums"
	pkgerrors "github.com/yeezuz2020/store-api/pkg/errors"
	"github.com/yeezuz2020/store-api/pkg/logger"

	"github.com/yeezuz2020/store-api/api/responses"
	"github.com/yeezuz2020/store-api/api/validators"
)

type resendEmailRequest struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message"`
}

// AdminOrderEmail manually resends a transactional email for one order. The
// paid status maps to the confirmation template, everything else to the
// status-update template.
func AdminOrderEmail(ordersSvc internalorders.Service, emails notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersSvc == nil || emails == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "email service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body resendEmailRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := ordersSvc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if status == enums.OrderStatusPaid {
			err = emails.SendOrderConfirmation(r.Context(), order)
		} else if body.Message != "" {
			err = emails.SendStatusUpdateWithMessage(r.Context(), order, status, body.Message)
		} else {
			err = emails.SendStatusUpdate(r.Context(), order, status)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}
