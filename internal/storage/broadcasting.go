package storage

import (
	"context"

	"cardquant-backend/internal/broadcast"
)

// BroadcastingStore: başarılı her Save sonrası değişikliği hub'a yayınlar.
// Her durum kabı (sekme) kendi origin'i ile ayrı bir sarmalayıcı kullanır.
type BroadcastingStore struct {
	Store
	hub    *broadcast.Hub
	origin string
}

func NewBroadcastingStore(inner Store, hub *broadcast.Hub, origin string) *BroadcastingStore {
	return &BroadcastingStore{Store: inner, hub: hub, origin: origin}
}

func (b *BroadcastingStore) Save(ctx context.Context, key string, value []byte) error {
	if err := b.Store.Save(ctx, key, value); err != nil {
		return err
	}
	b.hub.Publish(broadcast.Change{Key: key, Value: value, Origin: b.origin})
	return nil
}

func (b *BroadcastingStore) Origin() string { return b.origin }
