package managers

import (
	"context"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages the store manager directory.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a manager repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one manager row.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.StoreManager, error) {
	var manager models.StoreManager
	if err := r.db.WithContext(ctx).First(&manager, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &manager, nil
}

// Create inserts a new manager row.
func (r *Repository) Create(ctx context.Context, manager *models.StoreManager) error {
	return r.db.WithContext(ctx).Create(manager).Error
}

// List returns all managers ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.StoreManager, error) {
	var result []models.StoreManager
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
