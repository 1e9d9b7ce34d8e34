package models

import "time"

// OfflineAllocation assigns a slice of a product's stock to one store.
// At most one row exists per (product, manager) pair.
type OfflineAllocation struct {
	ProductID string    `gorm:"column:product_id;primaryKey"`
	ManagerID string    `gorm:"column:manager_id;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
