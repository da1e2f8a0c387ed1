package audit

import (
	"errors"
	"fmt"
	"time"

	"cardquant-backend/internal/models"
)

var (
	ErrChangeNotFound  = errors.New("değişiklik kaydı bulunamadı")
	ErrAlreadyReverted = errors.New("bu değişiklik zaten geri alınmış")
	ErrNothingToRevert = errors.New("geri alınacak miktar farkı yok")
	ErrRevertOfRevert  = errors.New("geri alma kaydı tekrar geri alınamaz")
)

// Diff: iki snapshot arasındaki miktar farkları.
// Sadece her iki tarafta da olan ve miktarı değişen ürünler döner, sıra next'in sırasıdır.
// Yeni eklenen ürünler (prev'de yok) listeye girmez.
func Diff(prev, next []models.InventoryItem) []models.QuantityChange {
	byID := make(map[string]models.InventoryItem, len(prev))
	for _, item := range prev {
		byID[item.ID] = item
	}

	changes := make([]models.QuantityChange, 0)
	for _, item := range next {
		before, ok := byID[item.ID]
		if !ok || before.Quantity == item.Quantity {
			continue
		}
		changes = append(changes, models.QuantityChange{
			ItemID:           item.ID,
			ItemName:         item.Name,
			PreviousQuantity: before.Quantity,
			NewQuantity:      item.Quantity,
			Difference:       item.Quantity - before.Quantity,
		})
	}
	return changes
}

// CreateChange: işlem tipi, kullanıcı ve önce/sonra snapshot'larından denetim kaydı üretir.
// Yan etkisi yok; ledger'a eklemek ve kaydetmek çağıranın işi.
func CreateChange(changeType models.ChangeType, actor models.Actor, prev, next []models.InventoryItem, description string) models.InventoryChange {
	return models.InventoryChange{
		ID:          models.NewID(models.PrefixChange),
		Timestamp:   time.Now().UTC(),
		Type:        changeType,
		User:        actor,
		Description: description,
		Changes:     Diff(prev, next),
	}
}

// Prepend: ledger en yeni kayıt başta olacak şekilde tutulur
func Prepend(ledger []models.InventoryChange, change models.InventoryChange) []models.InventoryChange {
	out := make([]models.InventoryChange, 0, len(ledger)+1)
	out = append(out, change)
	return append(out, ledger...)
}

// Find: ID ile kayıt
func Find(ledger []models.InventoryChange, id string) (models.InventoryChange, bool) {
	for _, c := range ledger {
		if c.ID == id {
			return c, true
		}
	}
	return models.InventoryChange{}, false
}

// Revert: kaydı geri alan envanter snapshot'ını ve yeni (telafi) kaydı döner.
// Orijinal kayıt değişmez; geri alma ayrı bir kayıt olarak eklenir.
// Artık envanterde olmayan ürünler atlanır.
func Revert(ledger []models.InventoryChange, inventory []models.InventoryItem, changeID string, actor models.Actor) ([]models.InventoryItem, models.InventoryChange, error) {
	original, ok := Find(ledger, changeID)
	if !ok {
		return nil, models.InventoryChange{}, ErrChangeNotFound
	}
	if original.RevertOf != "" {
		return nil, models.InventoryChange{}, ErrRevertOfRevert
	}
	for _, c := range ledger {
		if c.RevertOf == changeID {
			return nil, models.InventoryChange{}, ErrAlreadyReverted
		}
	}
	if len(original.Changes) == 0 {
		return nil, models.InventoryChange{}, ErrNothingToRevert
	}

	delta := make(map[string]int, len(original.Changes))
	for _, qc := range original.Changes {
		delta[qc.ItemID] += qc.Difference
	}

	next := models.CloneInventory(inventory)
	for i := range next {
		if d, ok := delta[next[i].ID]; ok {
			next[i].Quantity -= d
		}
	}

	change := CreateChange(original.Type, actor, inventory, next, fmt.Sprintf("Reverted: %s", original.Description))
	change.RevertOf = original.ID
	return next, change, nil
}
