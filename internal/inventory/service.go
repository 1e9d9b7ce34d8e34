package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db"
	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	pkgerrors "github.com/freshmartlabs/smartsupply-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the warehouse quantity ledger. Every write revalidates the
// full total/online/offline split and commits atomically.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetAvailability(ctx context.Context, productID string) (*ProductDTO, error)
	ListAvailability(ctx context.Context, search string) ([]ProductDTO, error)
}

// CreateProductInput holds the full product spec plus its allocation set.
type CreateProductInput struct {
	ProductID      string
	Name           string
	Price          decimal.Decimal
	TotalQuantity  int
	OnlineQuantity int
	Allocations    []AllocationInput
}

// UpdateProductInput replaces the quantity split and the entire allocation
// set; name and price only change when provided.
type UpdateProductInput struct {
	Name           *string
	Price          *decimal.Decimal
	TotalQuantity  int
	OnlineQuantity int
	Allocations    []AllocationInput
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs the ledger service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateProduct validates the split, then commits the product row and all
// allocation rows together.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	productID := strings.TrimSpace(input.ProductID)

	violations := ValidateQuantitySplit(QuantitySpec{
		TotalQuantity:  input.TotalQuantity,
		OnlineQuantity: input.OnlineQuantity,
		Allocations:    input.Allocations,
	})
	if violations == nil {
		violations = Violations{}
	}
	if productID == "" {
		violations["product_id"] = "is required"
	}
	if strings.TrimSpace(input.Name) == "" {
		violations["name"] = "is required"
	}
	if input.Price.IsNegative() {
		violations["price"] = "must be non-negative"
	}
	if len(violations) > 0 {
		return nil, splitError(violations)
	}

	if err := s.ensureKnownManagers(ctx, input.Allocations); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, productID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists").
			WithDetails(map[string]any{"product_id": productID})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product := &models.Product{
		ID:             productID,
		Name:           strings.TrimSpace(input.Name),
		Price:          input.Price.Round(2),
		TotalQuantity:  input.TotalQuantity,
		OnlineQuantity: input.OnlineQuantity,
	}
	allocations := buildAllocationRows(productID, input.Allocations)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already exists").
					WithDetails(map[string]any{"product_id": productID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		if err := txRepo.ReplaceAllocations(ctx, productID, allocations); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert allocations")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product.Allocations = allocations
	return NewProductDTO(product), nil
}

// UpdateProduct replaces the quantity split and allocation set in one atomic
// operation. A failed validation leaves the stored rows untouched.
func (s *service) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	violations := ValidateQuantitySplit(QuantitySpec{
		TotalQuantity:  input.TotalQuantity,
		OnlineQuantity: input.OnlineQuantity,
		Allocations:    input.Allocations,
	})
	if violations == nil {
		violations = Violations{}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		violations["name"] = "cannot be empty"
	}
	if input.Price != nil && input.Price.IsNegative() {
		violations["price"] = "must be non-negative"
	}
	if len(violations) > 0 {
		return nil, splitError(violations)
	}

	if err := s.ensureKnownManagers(ctx, input.Allocations); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = input.Price.Round(2)
	}
	product.TotalQuantity = input.TotalQuantity
	product.OnlineQuantity = input.OnlineQuantity
	product.Allocations = nil

	allocations := buildAllocationRows(productID, input.Allocations)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureAllocationsCoverSales(ctx, txRepo, productID, input.Allocations); err != nil {
			return err
		}
		if _, err := txRepo.SaveProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if err := txRepo.ReplaceAllocations(ctx, productID, allocations); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace allocations")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	product.Allocations = allocations
	return NewProductDTO(product), nil
}

// DeleteProduct removes the product; allocations and sales records follow via
// FK cascades, which also freezes any further sales against it.
func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetAvailability returns the committed total/online/per-store snapshot.
func (s *service) GetAvailability(ctx context.Context, productID string) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListAvailability returns all products matching the optional search term.
func (s *service) ListAvailability(ctx context.Context, search string) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	result := make([]ProductDTO, 0, len(products))
	for i := range products {
		result = append(result, *NewProductDTO(&products[i]))
	}
	return result, nil
}

func (s *service) ensureKnownManagers(ctx context.Context, allocations []AllocationInput) error {
	ids := make([]string, 0, len(allocations))
	for _, alloc := range allocations {
		ids = append(ids, strings.TrimSpace(alloc.ManagerID))
	}
	missing, err := s.repo.MissingManagers(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check managers")
	}
	if len(missing) == 0 {
		return nil
	}
	violations := Violations{}
	for i, alloc := range allocations {
		for _, id := range missing {
			if strings.TrimSpace(alloc.ManagerID) == id {
				violations[allocField(i, "manager_id")] = "unknown manager"
			}
		}
	}
	return splitError(violations)
}

// ensureAllocationsCoverSales keeps the no-oversell invariant intact on
// update: a store's new allocation may not drop below what it has already
// sold. It must run inside the transaction that replaces the allocation
// rows, otherwise a sale committing in between can push sold past the new
// ceiling.
func ensureAllocationsCoverSales(ctx context.Context, repo *Repository, productID string, allocations []AllocationInput) error {
	records, err := repo.ListSalesForProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales records")
	}
	if len(records) == 0 {
		return nil
	}
	soldByManager := make(map[string]int, len(records))
	for _, record := range records {
		soldByManager[record.ManagerID] = record.SoldQuantity
	}
	violations := Violations{}
	for i, alloc := range allocations {
		if sold, ok := soldByManager[strings.TrimSpace(alloc.ManagerID)]; ok && alloc.Quantity < sold {
			violations[allocField(i, "quantity")] = fmt.Sprintf("below recorded sales (%d already sold)", sold)
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return splitError(violations)
}

func buildAllocationRows(productID string, allocations []AllocationInput) []models.OfflineAllocation {
	rows := make([]models.OfflineAllocation, 0, len(allocations))
	for _, alloc := range allocations {
		rows = append(rows, models.OfflineAllocation{
			ProductID: productID,
			ManagerID: strings.TrimSpace(alloc.ManagerID),
			Quantity:  alloc.Quantity,
		})
	}
	return rows
}

func splitError(violations Violations) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, violations.Err(), "quantity split invalid").
		WithDetails(violations)
}
