package inventory

import (
	"errors"
	"strings"

	"cardquant-backend/internal/models"
)

var (
	ErrCategoryRequired  = errors.New("kategori adı zorunlu")
	ErrCategoryExists    = errors.New("bu kategori zaten var")
	ErrCategoryNotFound  = errors.New("kategori bulunamadı")
	ErrCategoryProtected = errors.New("bu kategori silinemez")
)

// IsProtectedCategory: Uncategorized ve Other silinemez
func IsProtectedCategory(name string) bool {
	return name == models.CategoryUncategorized || name == models.CategoryOther
}

func containsCategory(categories []string, name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddCategory: yeni kategori ekler
func AddCategory(categories []string, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryRequired
	}
	if containsCategory(categories, name) {
		return nil, ErrCategoryExists
	}
	next := make([]string, 0, len(categories)+1)
	next = append(next, categories...)
	return append(next, name), nil
}

// DeleteCategory: kategoriyi siler, o kategorideki ürünler Uncategorized'a taşınır.
// Hiçbir ürün silinmez.
func DeleteCategory(inventory []models.InventoryItem, categories []string, name string) ([]models.InventoryItem, []string, int, error) {
	if IsProtectedCategory(name) {
		return nil, nil, 0, ErrCategoryProtected
	}
	if !containsCategory(categories, name) {
		return nil, nil, 0, ErrCategoryNotFound
	}

	nextCategories := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != name {
			nextCategories = append(nextCategories, c)
		}
	}
	if !containsCategory(nextCategories, models.CategoryUncategorized) {
		nextCategories = append(nextCategories, models.CategoryUncategorized)
	}

	next := models.CloneInventory(inventory)
	moved := 0
	for i := range next {
		if next[i].Category == name {
			next[i].Category = models.CategoryUncategorized
			moved++
		}
	}
	return next, nextCategories, moved, nil
}

// EnsureCategories: ürünlerde geçen ama sette olmayan kategorileri sona ekler
func EnsureCategories(categories []string, items []models.InventoryItem) []string {
	next := make([]string, 0, len(categories))
	next = append(next, categories...)
	for _, item := range items {
		if !containsCategory(next, item.Category) {
			next = append(next, item.Category)
		}
	}
	return next
}
