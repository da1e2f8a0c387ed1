package app

import (
	"context"

	"cardquant-backend/internal/models"
	"cardquant-backend/internal/storage"
	"cardquant-backend/internal/stream"

	"go.uber.org/zap"
)

// SettleStream: yayını kapatır, envanteri düşer, "stream" kaydını ekler
func (s *State) SettleStream(ctx context.Context, actor models.Actor, draft models.StreamDraft) (stream.Settlement, error) {
	s.mu.Lock()
	result, err := stream.Settle(draft, s.inventory, actor)
	if err != nil {
		s.mu.Unlock()
		return stream.Settlement{}, err
	}
	s.commitInventory(result.Inventory, result.Change)
	s.streams = append(s.streams, result.Stream)
	s.mu.Unlock()

	for _, neg := range result.NegativeStock {
		s.log.Warn("stok sıfırın altına düştü",
			zap.String("item", neg.ItemID),
			zap.String("name", neg.ItemName),
			zap.Int("quantity", neg.Quantity),
			zap.String("stream", result.Stream.ID),
		)
	}

	s.persist(ctx, storage.KeyInventory, storage.KeyStreams, storage.KeyInventoryChanges)
	return result, nil
}
