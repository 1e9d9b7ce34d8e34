package sales

import (
	"context"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for cumulative sales records.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a sales repository bound to the provided database.
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

// FindAllocation loads the allocation row that caps this manager's sales.
func (r *Repository) FindAllocation(ctx context.Context, productID, managerID string) (*models.OfflineAllocation, error) {
	var allocation models.OfflineAllocation
	if err := r.db.WithContext(ctx).
		First(&allocation, "product_id = ? AND manager_id = ?", productID, managerID).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

// EnsureRecord guarantees a zero-counter row exists so the conditional
// increment below has a row to hit. Safe to call concurrently.
func (r *Repository) EnsureRecord(ctx context.Context, productID, managerID string) error {
	record := models.SalesRecord{ProductID: productID, ManagerID: managerID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error
}

// ApplySale atomically adds quantity to the cumulative counter, but only when
// the new total stays within the allocation ceiling. It reports whether the
// increment was applied. The conditional update is the compare-and-swap that
// serializes concurrent sales on the same (product, manager) pair.
func (r *Repository) ApplySale(ctx context.Context, productID, managerID string, quantity, ceiling int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SalesRecord{}).
		Where("product_id = ? AND manager_id = ? AND sold_quantity + ? <= ?",
			productID, managerID, quantity, ceiling).
		Update("sold_quantity", gorm.Expr("sold_quantity + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetRecord loads the cumulative counter for the pair.
func (r *Repository) GetRecord(ctx context.Context, productID, managerID string) (*models.SalesRecord, error) {
	var record models.SalesRecord
	if err := r.db.WithContext(ctx).
		First(&record, "product_id = ? AND manager_id = ?", productID, managerID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByManager returns every sales record for one manager.
func (r *Repository) ListByManager(ctx context.Context, managerID string) ([]models.SalesRecord, error) {
	var records []models.SalesRecord
	if err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("product_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
