package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freshmartlabs/smartsupply-backend/api/responses"
	"github.com/freshmartlabs/smartsupply-backend/api/validators"
	"github.com/freshmartlabs/smartsupply-backend/internal/availability"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
)

// WarehouseAvailability lists the warehouse projection for all products.
func WarehouseAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		views, err := svc.WarehouseList(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// WarehouseProductAvailability returns the warehouse projection of one product.
func WarehouseProductAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		view, err := svc.WarehouseProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// StoreAvailability lists one manager's allocation-scoped projection.
func StoreAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		managerID := chi.URLParam(r, "managerID")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithManagerID(ctx, managerID)
		}

		views, err := svc.StoreList(ctx, managerID, validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

// ConsumerAvailability lists the storefront projection.
func ConsumerAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		views, err := svc.ConsumerList(r.Context(), validators.QueryString(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}
