package audit

import (
	"time"

	"cardquant-backend/internal/models"
)

// Filter: liste ekranındaki filtreler. Boş alan = filtre yok.
type Filter struct {
	Type   models.ChangeType
	UserID string
	ItemID string
	From   *time.Time
	To     *time.Time
}

// Apply: ledger sırasını (en yeni başta) koruyarak filtreler
func (f Filter) Apply(ledger []models.InventoryChange) []models.InventoryChange {
	out := make([]models.InventoryChange, 0, len(ledger))
	for _, c := range ledger {
		if f.Type != "" && c.Type != f.Type {
			continue
		}
		if f.UserID != "" && c.User.ID != f.UserID {
			continue
		}
		if f.From != nil && c.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && c.Timestamp.After(*f.To) {
			continue
		}
		if f.ItemID != "" && !touchesItem(c, f.ItemID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func touchesItem(c models.InventoryChange, itemID string) bool {
	for _, qc := range c.Changes {
		if qc.ItemID == itemID {
			return true
		}
	}
	return false
}
