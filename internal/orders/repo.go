package orders

import (
	"context"

	"github.com/freshmartlabs/smartsupply-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for consumer orders and the online-channel
// stock they draw down.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
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

// FindProduct loads the product row a line item refers to.
func (r *Repository) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementOnline atomically takes quantity units from the product's online
// channel, but only when that much is still available. It reports whether the
// decrement was applied; zero rows affected means insufficient stock.
func (r *Repository) DecrementOnline(ctx context.Context, productID string, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND online_quantity >= ?", productID, quantity).
		Update("online_quantity", gorm.Expr("online_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CreateOrder inserts the order and its line items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.ConsumerOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}
