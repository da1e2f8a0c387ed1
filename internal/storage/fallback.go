package storage

import (
	"context"

	"go.uber.org/zap"
)

// FallbackStore: birincil depo hata verirse ikincile yazar/ikinciden okur.
// Başarılı birincil yazımlar ikinciye de aynalanır.
type FallbackStore struct {
	primary   Store
	secondary Store
	log       *zap.Logger
}

func NewFallbackStore(primary, secondary Store, log *zap.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary, log: log}
}

func (f *FallbackStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := f.primary.Load(ctx, key)
	if err == nil {
		return v, ok, nil
	}
	f.log.Warn("birincil depodan okunamadı, yedeğe geçiliyor", zap.String("key", key), zap.Error(err))
	return f.secondary.Load(ctx, key)
}

func (f *FallbackStore) Save(ctx context.Context, key string, value []byte) error {
	if err := f.primary.Save(ctx, key, value); err != nil {
		f.log.Warn("birincil depoya yazılamadı, yedeğe yazılıyor", zap.String("key", key), zap.Error(err))
		return f.secondary.Save(ctx, key, value)
	}
	if err := f.secondary.Save(ctx, key, value); err != nil {
		f.log.Debug("yedek depo aynalaması başarısız", zap.String("key", key), zap.Error(err))
	}
	return nil
}
