package models

import (
	"time"

	"github.com/freshmartlabs/smartsupply-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumerOrder is one online-channel purchase with its delivery details.
type ConsumerOrder struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ConsumerID   string            `gorm:"column:consumer_id;not null"`
	CustomerName string            `gorm:"column:customer_name;not null"`
	Address      string            `gorm:"column:address;not null"`
	PaymentMode  enums.PaymentMode `gorm:"column:payment_mode;not null"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	LineItems    []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}
