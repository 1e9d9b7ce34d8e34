package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical warehouse listing. IDs are caller-assigned so the
// warehouse can keep using its existing SKU scheme.
type Product struct {
	ID             string              `gorm:"column:id;primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	TotalQuantity  int                 `gorm:"column:total_quantity;not null;default:0"`
	OnlineQuantity int                 `gorm:"column:online_quantity;not null;default:0"`
	Allocations    []OfflineAllocation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
