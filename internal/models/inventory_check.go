package models

// CheckItem: sayım oturumu boyunca tutulan geçici satır
type CheckItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ExpectedQuantity int    `json:"expectedQuantity"`
	ActualQuantity   int    `json:"actualQuantity"`
	IsChecked        bool   `json:"isChecked"`
	IsCorrect        bool   `json:"isCorrect"`
}

// CheckedItem: kalıcı sayım kaydındaki satır
type CheckedItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ExpectedQuantity int    `json:"expectedQuantity"`
	ActualQuantity   int    `json:"actualQuantity"`
}

// Difference: actual - expected (eksik ise negatif)
func (c CheckedItem) Difference() int {
	return c.ActualQuantity - c.ExpectedQuantity
}

// InventoryCheck: tamamlanmış sayım. Oluşturulduktan sonra değişmez.
type InventoryCheck struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"` // "2025-12-09"
	Time         string        `json:"time"` // "14:25:06"
	CheckedItems []CheckedItem `json:"checkedItems"`
	IsCorrect    bool          `json:"isCorrect"`
	MissingItems int           `json:"missingItems"`
}

// Discrepancy: beklenen ve sayılan miktarın tuttuğu olmayan satır
type Discrepancy struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ExpectedQuantity int    `json:"expectedQuantity"`
	ActualQuantity   int    `json:"actualQuantity"`
	Difference       int    `json:"difference"`
}

// Discrepancies: sadece expected != actual olan satırlar
func (c InventoryCheck) Discrepancies() []Discrepancy {
	out := make([]Discrepancy, 0)
	for _, item := range c.CheckedItems {
		if item.ExpectedQuantity == item.ActualQuantity {
			continue
		}
		out = append(out, Discrepancy{
			ID:               item.ID,
			Name:             item.Name,
			ExpectedQuantity: item.ExpectedQuantity,
			ActualQuantity:   item.ActualQuantity,
			Difference:       item.Difference(),
		})
	}
	return out
}
