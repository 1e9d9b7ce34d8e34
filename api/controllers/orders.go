package controllers

import (
	"net/http"

	"github.com/freshmartlabs/smartsupply-backend/api/responses"
	"github.com/freshmartlabs/smartsupply-backend/api/validators"
	"github.com/freshmartlabs/smartsupply-backend/internal/orders"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
)

// PlaceOrder commits a consumer cart against online stock.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]orders.OrderLineInput, 0, len(payload.Cart))
		for _, line := range payload.Cart {
			lines = append(lines, orders.OrderLineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}

		order, err := svc.PlaceOrder(r.Context(), orders.PlaceOrderInput{
			ConsumerID:   payload.ConsumerID,
			CustomerName: payload.Name,
			Address:      payload.Address,
			PaymentMode:  payload.PaymentMode,
			Lines:        lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type placeOrderRequest struct {
	ConsumerID  string             `json:"consumer_id" validate:"required"`
	Name        string             `json:"name" validate:"required"`
	Address     string             `json:"address" validate:"required"`
	PaymentMode string             `json:"payment_mode" validate:"required"`
	Cart        []orderLineRequest `json:"cart" validate:"required,min=1,dive"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}
