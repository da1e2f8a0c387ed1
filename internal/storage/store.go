package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kayıt anahtarları
const (
	KeyInventory        = "inventory"
	KeyStreams          = "streams"
	KeyCategories       = "categories"
	KeyInventoryChecks  = "inventory_checks"
	KeyInventoryChanges = "inventory_changes"
	KeyUsers            = "users"
	KeyCurrentUser      = "current_user"
)

// Store: anahtar başına tek JSON değer. Save, aynı süreçte bir sonraki Load'dan önce kalıcıdır.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

// LoadOr: kayıt yoksa def döner
func LoadOr[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, ok, err := s.Load(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("%s çözümlenemedi: %w", key, err)
	}
	return v, nil
}

// SaveValue: değeri JSON olarak yazar
func SaveValue[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s serileştirilemedi: %w", key, err)
	}
	return s.Save(ctx, key, raw)
}
