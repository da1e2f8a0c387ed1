package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardquant-backend/internal/app"
	"cardquant-backend/internal/broadcast"
	"cardquant-backend/internal/config"
	"cardquant-backend/internal/database"
	"cardquant-backend/internal/logger"
	"cardquant-backend/internal/server"
	"cardquant-backend/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogEncoding, cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger oluşturulamadı: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	warnings, err := cfg.Validate()
	if err != nil {
		zl.Fatal("config hatası", zap.Error(err))
	}
	for _, w := range warnings {
		zl.Warn(w)
	}

	store, err := openStore(cfg, zl)
	if err != nil {
		zl.Fatal("depo açılamadı", zap.Error(err))
	}

	// Hub birden fazla State aynı depoyu paylaştığında değişiklikleri taşır; tek süreçte tek abone var
	hub := broadcast.NewHub()
	state := app.New(app.Options{
		Store:  store,
		Hub:    hub,
		Logger: zl,
	})
	defer state.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = state.Load(ctx)
	cancel()
	if err != nil {
		zl.Fatal("durum yüklenemedi", zap.Error(err))
	}

	a := server.New(cfg, state, zl)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("kapatılıyor")
		if err := a.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("kapatma hatası", zap.Error(err))
		}
	}()

	zl.Info("sunucu başlatılıyor", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageDriver))
	if err := a.Listen(":" + cfg.HTTPPort); err != nil {
		zl.Fatal("sunucu hatası", zap.Error(err))
	}
}

// openStore: postgres seçiliyse bellek yedekli gorm deposu, değilse sadece bellek
func openStore(cfg *config.Config, zl *zap.Logger) (storage.Store, error) {
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return storage.NewMemoryStore(), nil
	}
	db, err := database.Open(cfg, zl)
	if err != nil {
		return nil, err
	}
	return storage.NewFallbackStore(storage.NewGormStore(db), storage.NewMemoryStore(), zl), nil
}
