package models

import "time"

// SalesRecord keeps the cumulative units a manager has sold of a product.
// The counter only grows; the capacity ceiling lives on the allocation row.
type SalesRecord struct {
	ProductID    string    `gorm:"column:product_id;primaryKey"`
	ManagerID    string    `gorm:"column:manager_id;primaryKey"`
	SoldQuantity int       `gorm:"column:sold_quantity;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
