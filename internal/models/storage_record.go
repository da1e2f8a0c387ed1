package models

import "time"

// StorageRecord: anahtar başına tek JSON değer (inventory, streams, categories ...)
type StorageRecord struct {
	Key       string `gorm:"column:storage_key;primaryKey;size:64"`
	Value     string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}
