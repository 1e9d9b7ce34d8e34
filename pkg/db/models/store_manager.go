package models

import "time"

// StoreManager is the directory row for one physical store. Credentials and
// sessions are handled outside this service.
type StoreManager struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Location  string    `gorm:"column:location;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
