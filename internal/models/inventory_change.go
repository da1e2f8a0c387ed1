package models

import "time"

type ChangeType string

const (
	ChangeTypeManual ChangeType = "manual"
	ChangeTypeUpload ChangeType = "upload"
	ChangeTypeStream ChangeType = "stream"
	ChangeTypeCheck  ChangeType = "check"
)

func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeManual, ChangeTypeUpload, ChangeTypeStream, ChangeTypeCheck:
		return true
	}
	return false
}

// Actor: değişikliği yapan kullanıcı (denormalize)
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuantityChange: tek bir ürünün miktar farkı.
// Difference her zaman NewQuantity - PreviousQuantity.
type QuantityChange struct {
	ItemID           string `json:"itemId"`
	ItemName         string `json:"itemName"`
	PreviousQuantity int    `json:"previousQuantity"`
	NewQuantity      int    `json:"newQuantity"`
	Difference       int    `json:"difference"`
}

// InventoryChange: envanter üzerindeki her işlemin denetim kaydı
type InventoryChange struct {
	ID          string           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Type        ChangeType       `json:"type"`
	User        Actor            `json:"user"`
	Description string           `json:"description"`
	Changes     []QuantityChange `json:"changes"`

	// Bu kayıt başka bir kaydı geri alıyorsa, geri alınan kaydın ID'si
	RevertOf string `json:"revertOf,omitempty"`
}
