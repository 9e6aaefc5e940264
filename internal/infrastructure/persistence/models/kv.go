package models

import "time"

// KeyValueModel stores one persisted cart document
type KeyValueModel struct {
	Key       string    `gorm:"column:key;type:varchar(255);primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name for GORM
func (KeyValueModel) TableName() string {
	return "storefront_kv"
}
