package inventory

import (
	"time"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the canonical product payload returned to clients after any
// ledger operation. Write operations return it directly so callers never need
// a follow-up read.
type ProductDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	TotalQuantity  int             `json:"total_quantity"`
	OnlineQuantity int             `json:"online_quantity"`
	Allocations    []AllocationDTO `json:"offline_store_allocations"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AllocationDTO is one store's share of a product.
type AllocationDTO struct {
	ManagerID string `json:"manager_id"`
	Quantity  int    `json:"quantity"`
}

// NewProductDTO converts the stored rows into the response payload.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	allocations := make([]AllocationDTO, 0, len(product.Allocations))
	for _, alloc := range product.Allocations {
		allocations = append(allocations, AllocationDTO{
			ManagerID: alloc.ManagerID,
			Quantity:  alloc.Quantity,
		})
	}
	return &ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Price:          product.Price,
		TotalQuantity:  product.TotalQuantity,
		OnlineQuantity: product.OnlineQuantity,
		Allocations:    allocations,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}
