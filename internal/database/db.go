package database

import (
	"fmt"

	"cardquant-backend/internal/config"
	"cardquant-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open: Postgres bağlantısı açar ve storage_records tablosunu migrate eder
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := db.AutoMigrate(&models.StorageRecord{}); err != nil {
		return nil, fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	log.Info("veritabanı bağlantısı başarılı, migration tamamlandı")
	return db, nil
}
