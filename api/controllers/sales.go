package controllers

import (
	"net/http"

	"github.com/freshmartlabs/smartsupply-backend/api/responses"
	"github.com/freshmartlabs/smartsupply-backend/api/validators"
	"github.com/freshmartlabs/smartsupply-backend/internal/sales"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
)

// RecordSale applies one offline sale against a store's allocation.
func RecordSale(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithManagerID(ctx, payload.ManagerID)
			ctx = logg.WithProductID(ctx, payload.ProductID)
		}

		result, err := svc.RecordSale(ctx, payload.ManagerID, payload.ProductID, payload.QuantitySold)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type recordSaleRequest struct {
	ManagerID    string `json:"manager_id" validate:"required"`
	ProductID    string `json:"product_id" validate:"required"`
	QuantitySold int    `json:"quantity_sold" validate:"required,min=1"`
}

// GetSold returns the cumulative sold figure for one manager and product.
func GetSold(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		managerID, err := validators.RequireQueryString(r, "manager_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.RequireQueryString(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sold, err := svc.GetSold(r.Context(), managerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"manager_id":    managerID,
			"product_id":    productID,
			"sold_quantity": sold,
		})
	}
}

// SalesSummary lists one manager's cumulative sales per product.
func SalesSummary(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		managerID, err := validators.RequireQueryString(r, "manager_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.ListManagerSales(r.Context(), managerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}
