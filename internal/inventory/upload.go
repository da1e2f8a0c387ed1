package inventory

import (
	"cardquant-backend/internal/models"
)

// Ingest: doğrulanmış toplu yükleme partisini envantere ekler.
// Her ürün yeni ID alır; kategori boşsa Uncategorized.
func Ingest(inventory []models.InventoryItem, batch []models.InventoryItem) ([]models.InventoryItem, []models.InventoryItem, error) {
	added := make([]models.InventoryItem, 0, len(batch))
	for _, item := range batch {
		item.ID = models.NewID(models.PrefixItem)
		item.Category = normalizeCategory(item.Category)
		if err := ValidateItem(item); err != nil {
			return nil, nil, err
		}
		added = append(added, item)
	}
	if len(added) == 0 {
		return nil, nil, ErrNoValidRows
	}

	next := make([]models.InventoryItem, 0, len(inventory)+len(added))
	next = append(next, inventory...)
	next = append(next, added...)
	return next, added, nil
}
