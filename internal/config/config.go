package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	defaultDSN         = "host=localhost user=postgres password=postgres dbname=cardquant port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	AppEnv        string
	HTTPPort      string
	StorageDriver string // memory / postgres
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	LogLevel      string
	LogEncoding   string // json / console
}

// Load: .env (varsa) ve ortam değişkenlerinden config okur
func Load() *Config {
	// .env yoksa sorun değil, ortam değişkenleri kullanılır
	_ = godotenv.Load()

	return &Config{
		AppEnv:        getEnv("APP_ENV", "dev"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMemory)),
		DatabaseDSN:   getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogEncoding:   getEnv("LOG_ENCODING", "json"),
	}
}

// Validate: zorunlu alanlar. Uyarılar ayrı döner, hata değildir.
func (c *Config) Validate() (warnings []string, err error) {
	if c.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment değişkeni tanımlanmamış")
	}
	if len(c.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET en az 32 karakter olmalıdır")
	}
	switch c.StorageDriver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("bilinmeyen STORAGE_DRIVER: %q", c.StorageDriver)
	}

	if c.StorageDriver == StorageDriverPostgres && c.DatabaseDSN == defaultDSN {
		warnings = append(warnings, "DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgini tanımla")
	}
	if c.StorageDriver == StorageDriverMemory {
		warnings = append(warnings, "STORAGE_DRIVER=memory, veriler süreç kapanınca kaybolur")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor")
	}
	return warnings, nil
}

// CORSOriginList: virgülle ayrılmış origin listesi
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
