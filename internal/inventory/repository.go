package inventory

import (
	"context"
	"strings"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together product and allocation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product with its allocation set.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row with its allocations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveProduct updates an existing product row, leaving the allocation set to
// ReplaceAllocations.
func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// ReplaceAllocations swaps the full allocation set for the product.
func (r *Repository) ReplaceAllocations(ctx context.Context, productID string, allocations []models.OfflineAllocation) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.OfflineAllocation{}).Error; err != nil {
		return err
	}
	if len(allocations) == 0 {
		return nil
	}
	return tx.Create(&allocations).Error
}

// DeleteProduct removes a product; allocations and sales records follow via
// FK cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ListProducts returns products with allocations, optionally filtered by a
// case-insensitive match on id or name.
func (r *Repository) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Allocations").Order("created_at ASC")
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListSalesForProduct returns the cumulative sales rows for one product.
func (r *Repository) ListSalesForProduct(ctx context.Context, productID string) ([]models.SalesRecord, error) {
	var records []models.SalesRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MissingManagers returns the subset of the given manager IDs that have no
// directory row.
func (r *Repository) MissingManagers(ctx context.Context, managerIDs []string) ([]string, error) {
	if len(managerIDs) == 0 {
		return nil, nil
	}
	var found []string
	if err := r.db.WithContext(ctx).
		Model(&models.StoreManager{}).
		Where("id IN ?", managerIDs).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []string
	for _, id := range managerIDs {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
