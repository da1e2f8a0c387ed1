package stream

import (
	"errors"
	"fmt"
	"strings"

	"cardquant-backend/internal/audit"
	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidDraft = errors.New("geçersiz yayın kaydı")

// NegativeStock: satıştan sonra miktarı sıfırın altına düşen ürün.
// Miktar kırpılmaz, sadece raporlanır.
type NegativeStock struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// Settlement: yayın kapatma sonucu
type Settlement struct {
	Inventory     []models.InventoryItem `json:"-"`
	Change        models.InventoryChange `json:"change"`
	Stream        models.Stream          `json:"stream"`
	NegativeStock []NegativeStock        `json:"negativeStock"`
}

// ValidateDraft: tarih, başlangıç/bitiş saati ve sorter zorunlu; platform tiktok/fanatics
func ValidateDraft(draft models.StreamDraft) error {
	if strings.TrimSpace(draft.Date) == "" || strings.TrimSpace(draft.StartTime) == "" ||
		strings.TrimSpace(draft.EndTime) == "" || strings.TrimSpace(draft.Sorter) == "" {
		return fmt.Errorf("%w: tarih, başlangıç, bitiş ve sorter zorunlu", ErrInvalidDraft)
	}
	if !draft.Platform.Valid() {
		return fmt.Errorf("%w: bilinmeyen platform %q", ErrInvalidDraft, draft.Platform)
	}
	if draft.TotalSales.IsNegative() {
		return fmt.Errorf("%w: toplam satış negatif olamaz", ErrInvalidDraft)
	}
	for _, sold := range draft.SoldItems {
		if sold.QuantitySold <= 0 {
			return fmt.Errorf("%w: satılan miktar sıfırdan büyük olmalı (%s)", ErrInvalidDraft, sold.Name)
		}
	}
	return nil
}

// Settle: satılan ürünleri envanterden düşer ve "stream" tipinde değişiklik kaydı üretir.
// Satış satırının isim ve maliyeti envanterden alınır; istemcinin gönderdiği değerler yok sayılır.
// Envanterde bulunmayan ürünler stoktan düşülmez, satır olduğu gibi saklanır.
func Settle(draft models.StreamDraft, inventory []models.InventoryItem, actor models.Actor) (Settlement, error) {
	if err := ValidateDraft(draft); err != nil {
		return Settlement{}, err
	}

	sold := make(map[string]int, len(draft.SoldItems))
	for _, item := range draft.SoldItems {
		sold[item.ID] += item.QuantitySold
	}

	next := models.CloneInventory(inventory)
	var negative []NegativeStock
	for i := range next {
		qty, ok := sold[next[i].ID]
		if !ok {
			continue
		}
		next[i].Quantity -= qty
		if next[i].Quantity < 0 {
			negative = append(negative, NegativeStock{
				ItemID:   next[i].ID,
				ItemName: next[i].Name,
				Quantity: next[i].Quantity,
			})
		}
	}

	streamer := draft.Streamer
	if streamer == "" {
		streamer = actor.Name
	}

	byID := make(map[string]models.InventoryItem, len(inventory))
	for _, item := range inventory {
		byID[item.ID] = item
	}
	soldItems := make([]models.SoldItem, 0, len(draft.SoldItems))
	for _, sold := range draft.SoldItems {
		if item, ok := byID[sold.ID]; ok {
			soldItems = append(soldItems, SnapshotSoldItem(item, sold.QuantitySold))
			continue
		}
		soldItems = append(soldItems, sold)
	}

	finalized := models.Stream{
		ID:         models.NewID(models.PrefixStream),
		Date:       draft.Date,
		StartTime:  draft.StartTime,
		EndTime:    draft.EndTime,
		Streamer:   streamer,
		StreamerID: draft.StreamerID,
		Sorter:     draft.Sorter,
		Platform:   draft.Platform,
		TotalSales: draft.TotalSales,
		SoldItems:  soldItems,
	}

	change := audit.CreateChange(models.ChangeTypeStream, actor, inventory, next,
		fmt.Sprintf("Stream on %s by %s", finalized.Date, finalized.Streamer))

	return Settlement{
		Inventory:     next,
		Change:        change,
		Stream:        finalized,
		NegativeStock: negative,
	}, nil
}

// SnapshotSoldItem: envanter ürününden satış satırı (maliyet o anki değer)
func SnapshotSoldItem(item models.InventoryItem, quantity int) models.SoldItem {
	return models.SoldItem{
		ID:           item.ID,
		Name:         item.Name,
		Cost:         item.Cost,
		QuantitySold: quantity,
	}
}

// TotalCost: Σ cost * quantitySold
func TotalCost(soldItems []models.SoldItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range soldItems {
		total = total.Add(item.Cost.Mul(decimal.NewFromInt(int64(item.QuantitySold))))
	}
	return total
}

// GrossProfit: totalSales - totalCost
func GrossProfit(totalSales, totalCost decimal.Decimal) decimal.Decimal {
	return totalSales.Sub(totalCost)
}
