package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItem  = errors.New("geçersiz ürün")
	ErrItemNotFound = errors.New("ürün bulunamadı")
)

// ItemInput: yeni ürün için gelen veri (ID sunucuda üretilir)
type ItemInput struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	Cost     decimal.Decimal `json:"cost"`
	Category string          `json:"category"`
}

// ItemPatch: tek ürün güncelleme, nil alanlar değişmez
type ItemPatch struct {
	Name     *string          `json:"name"`
	Quantity *int             `json:"quantity"`
	Cost     *decimal.Decimal `json:"cost"`
	Category *string          `json:"category"`
}

// ValidateItem: isim boş olamaz, miktar >= 0, maliyet > 0
func ValidateItem(item models.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: isim zorunlu", ErrInvalidItem)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: miktar negatif olamaz (%s)", ErrInvalidItem, item.Name)
	}
	if !item.Cost.IsPositive() {
		return fmt.Errorf("%w: maliyet sıfırdan büyük olmalı (%s)", ErrInvalidItem, item.Name)
	}
	return nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.CategoryUncategorized
	}
	return category
}

// NewItem: girdiden yeni ID'li ürün oluşturur
func NewItem(in ItemInput) (models.InventoryItem, error) {
	item := models.InventoryItem{
		ID:       models.NewID(models.PrefixItem),
		Name:     strings.TrimSpace(in.Name),
		Quantity: in.Quantity,
		Cost:     in.Cost,
		Category: normalizeCategory(in.Category),
	}
	if err := ValidateItem(item); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// AddItem: ürünü envantere ekler, yeni snapshot döner
func AddItem(inventory []models.InventoryItem, in ItemInput) ([]models.InventoryItem, models.InventoryItem, error) {
	item, err := NewItem(in)
	if err != nil {
		return nil, models.InventoryItem{}, err
	}
	next := append(models.CloneInventory(inventory), item)
	return next, item, nil
}

func indexOf(inventory []models.InventoryItem, id string) int {
	for i, item := range inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem: tek ürünü günceller
func UpdateItem(inventory []models.InventoryItem, id string, patch ItemPatch) ([]models.InventoryItem, models.InventoryItem, error) {
	idx := indexOf(inventory, id)
	if idx < 0 {
		return nil, models.InventoryItem{}, ErrItemNotFound
	}

	item := inventory[idx]
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Cost != nil {
		item.Cost = *patch.Cost
	}
	if patch.Category != nil {
		item.Category = normalizeCategory(*patch.Category)
	}
	if err := ValidateItem(item); err != nil {
		return nil, models.InventoryItem{}, err
	}

	next := models.CloneInventory(inventory)
	next[idx] = item
	return next, item, nil
}

// ReplaceAll: toplu düzenleme. Düzenlenen listedeki her ürün mevcut bir ID'ye sahip olmalı;
// listede olmayan ürünler olduğu gibi kalır.
func ReplaceAll(inventory []models.InventoryItem, edited []models.InventoryItem) ([]models.InventoryItem, error) {
	next := models.CloneInventory(inventory)
	for _, e := range edited {
		idx := indexOf(next, e.ID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, e.ID)
		}
		e.Name = strings.TrimSpace(e.Name)
		e.Category = normalizeCategory(e.Category)
		if err := ValidateItem(e); err != nil {
			return nil, err
		}
		next[idx] = e
	}
	return next, nil
}

// DeleteItem: ürünü siler. Denetim kayıtlarındaki referanslar bilerek korunur.
func DeleteItem(inventory []models.InventoryItem, id string) ([]models.InventoryItem, models.InventoryItem, error) {
	idx := indexOf(inventory, id)
	if idx < 0 {
		return nil, models.InventoryItem{}, ErrItemNotFound
	}
	deleted := inventory[idx]
	next := make([]models.InventoryItem, 0, len(inventory)-1)
	next = append(next, inventory[:idx]...)
	next = append(next, inventory[idx+1:]...)
	return next, deleted, nil
}

// AssignCategory: seçili ürünlerin kategorisini topluca değiştirir, değişen ürün sayısını döner
func AssignCategory(inventory []models.InventoryItem, ids []string, category string) ([]models.InventoryItem, int) {
	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}
	category = normalizeCategory(category)

	next := models.CloneInventory(inventory)
	n := 0
	for i := range next {
		if _, ok := selected[next[i].ID]; ok {
			next[i].Category = category
			n++
		}
	}
	return next, n
}

// TotalValue: Σ quantity * cost
func TotalValue(inventory []models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range inventory {
		total = total.Add(item.Value())
	}
	return total
}

// NegativeItems: miktarı sıfırın altına düşmüş ürünler
func NegativeItems(inventory []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, 0)
	for _, item := range inventory {
		if item.Quantity < 0 {
			out = append(out, item)
		}
	}
	return out
}

// Search: isimde (büyük/küçük harf duyarsız) arama + kategori filtresi ("" veya "all" = hepsi)
func Search(inventory []models.InventoryItem, term, category string) []models.InventoryItem {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.InventoryItem, 0, len(inventory))
	for _, item := range inventory {
		if term != "" && !strings.Contains(strings.ToLower(item.Name), term) {
			continue
		}
		if category != "" && category != "all" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

type CategoryGroup struct {
	Category string                 `json:"category"`
	Items    []models.InventoryItem `json:"items"`
	Value    decimal.Decimal        `json:"value"`
}

// GroupByCategory: kategori adına göre sıralı gruplar
func GroupByCategory(inventory []models.InventoryItem) []CategoryGroup {
	groups := make(map[string]*CategoryGroup)
	for _, item := range inventory {
		g, ok := groups[item.Category]
		if !ok {
			g = &CategoryGroup{Category: item.Category, Value: decimal.Zero}
			groups[item.Category] = g
		}
		g.Items = append(g.Items, item)
		g.Value = g.Value.Add(item.Value())
	}

	out := make([]CategoryGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}
