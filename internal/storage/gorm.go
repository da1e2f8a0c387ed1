package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cardquant-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore: storage_records tablosunda (jsonb) anahtar/değer
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var rec models.StorageRecord
	err := s.db.WithContext(ctx).First(&rec, "storage_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s okunamadı: %w", key, err)
	}
	return []byte(rec.Value), true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, value []byte) error {
	rec := models.StorageRecord{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%s kaydedilemedi: %w", key, err)
	}
	return nil
}

// Clear: tüm kayıtları siler
func (s *GormStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.StorageRecord{}).Error
}
