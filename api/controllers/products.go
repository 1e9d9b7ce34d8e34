package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/freshmartlabs/smartsupply-backend/api/responses"
	"github.com/freshmartlabs/smartsupply-backend/api/validators"
	"github.com/freshmartlabs/smartsupply-backend/internal/inventory"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/freshmartlabs/smartsupply-backend/pkg/logger"
)

// WarehouseCreateProduct registers a product with its full quantity split.
func WarehouseCreateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), inventory.CreateProductInput{
			ProductID:      payload.ProductID,
			Name:           payload.Name,
			Price:          payload.Price,
			TotalQuantity:  payload.TotalQuantity,
			OnlineQuantity: payload.OnlineQuantity,
			Allocations:    payload.allocations(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// WarehouseUpdateProduct replaces the quantity split and allocation set.
func WarehouseUpdateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productID")

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, inventory.UpdateProductInput{
			Name:           payload.Name,
			Price:          payload.Price,
			TotalQuantity:  payload.TotalQuantity,
			OnlineQuantity: payload.OnlineQuantity,
			Allocations:    payload.allocations(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// WarehouseDeleteProduct removes a product and its allocation rows.
func WarehouseDeleteProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

type createProductRequest struct {
	ProductID      string              `json:"product_id"`
	Name           string              `json:"name"`
	Price          decimal.Decimal     `json:"price"`
	TotalQuantity  int                 `json:"total_quantity"`
	OnlineQuantity int                 `json:"online_quantity"`
	Allocations    []allocationRequest `json:"offline_store_allocations"`
}

type updateProductRequest struct {
	Name           *string             `json:"name,omitempty"`
	Price          *decimal.Decimal    `json:"price,omitempty"`
	TotalQuantity  int                 `json:"total_quantity"`
	OnlineQuantity int                 `json:"online_quantity"`
	Allocations    []allocationRequest `json:"offline_store_allocations"`
}

type allocationRequest struct {
	ManagerID string `json:"manager_id"`
	Quantity  int    `json:"quantity"`
}

func (r createProductRequest) allocations() []inventory.AllocationInput {
	return toAllocationInputs(r.Allocations)
}

func (r updateProductRequest) allocations() []inventory.AllocationInput {
	return toAllocationInputs(r.Allocations)
}

func toAllocationInputs(rows []allocationRequest) []inventory.AllocationInput {
	result := make([]inventory.AllocationInput, 0, len(rows))
	for _, row := range rows {
		result = append(result, inventory.AllocationInput{
			ManagerID: row.ManagerID,
			Quantity:  row.Quantity,
		})
	}
	return result
}
