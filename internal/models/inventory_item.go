package models

import "github.com/shopspring/decimal"

const (
	CategoryUncategorized = "Uncategorized"
	CategoryOther         = "Other"
)

// DefaultCategories: ilk açılışta kullanılan kategori seti
var DefaultCategories = []string{CategoryUncategorized, CategoryOther}

// InventoryItem: envanterdeki tek bir ürün (kart, kutu vs.)
type InventoryItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Category string          `json:"category"`
}

// Value: quantity * cost
func (i InventoryItem) Value() decimal.Decimal {
	return i.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CloneInventory: snapshot almak için sığ kopya (elemanlar değer tipi)
func CloneInventory(items []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, len(items))
	copy(out, items)
	return out
}
