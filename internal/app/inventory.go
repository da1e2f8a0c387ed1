package app

import (
	"context"
	"fmt"

	"cardquant-backend/internal/audit"
	"cardquant-backend/internal/inventory"
	"cardquant-backend/internal/models"
	"cardquant-backend/internal/storage"

	"go.uber.org/zap"
)

// commitInventory: yeni snapshot'ı ve onu anlatan değişiklik kaydını aynı adımda uygular.
// s.mu tutulurken çağrılmalı.
func (s *State) commitInventory(next []models.InventoryItem, change models.InventoryChange) {
	s.inventory = next
	s.changes = audit.Prepend(s.changes, change)
}

func (s *State) AddItem(ctx context.Context, actor models.Actor, in inventory.ItemInput) (models.InventoryItem, error) {
	s.mu.Lock()
	prev := s.inventory
	next, item, err := inventory.AddItem(prev, in)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryItem{}, err
	}
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next, fmt.Sprintf("Added new item: %s", item.Name))
	s.commitInventory(next, change)
	s.categories = inventory.EnsureCategories(s.categories, []models.InventoryItem{item})
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return item, nil
}

func (s *State) UpdateItem(ctx context.Context, actor models.Actor, id string, patch inventory.ItemPatch) (models.InventoryItem, error) {
	s.mu.Lock()
	prev := s.inventory
	next, item, err := inventory.UpdateItem(prev, id, patch)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryItem{}, err
	}
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next, fmt.Sprintf("Updated item: %s", item.Name))
	s.commitInventory(next, change)
	s.categories = inventory.EnsureCategories(s.categories, []models.InventoryItem{item})
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return item, nil
}

// BulkEdit: düzenleme modundaki tüm değişiklikler tek "manual" kayıtla uygulanır
func (s *State) BulkEdit(ctx context.Context, actor models.Actor, edited []models.InventoryItem) (models.InventoryChange, error) {
	s.mu.Lock()
	prev := s.inventory
	next, err := inventory.ReplaceAll(prev, edited)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryChange{}, err
	}
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next, fmt.Sprintf("Bulk edit by %s", actor.Name))
	s.commitInventory(next, change)
	s.categories = inventory.EnsureCategories(s.categories, next)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return change, nil
}

func (s *State) DeleteItem(ctx context.Context, actor models.Actor, id string) (models.InventoryItem, error) {
	s.mu.Lock()
	prev := s.inventory
	next, deleted, err := inventory.DeleteItem(prev, id)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryItem{}, err
	}
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next, fmt.Sprintf("Deleted item: %s", deleted.Name))
	s.commitInventory(next, change)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyInventoryChanges)
	return deleted, nil
}

func (s *State) AssignCategory(ctx context.Context, actor models.Actor, ids []string, category string) (int, error) {
	s.mu.Lock()
	prev := s.inventory
	next, n := inventory.AssignCategory(prev, ids, category)
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next,
		fmt.Sprintf("Bulk category update to %q for %d items", category, len(ids)))
	s.commitInventory(next, change)
	s.categories = inventory.EnsureCategories(s.categories, next)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return n, nil
}

func (s *State) AddCategory(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	next, err := inventory.AddCategory(s.categories, name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.categories = next
	s.mu.Unlock()

	s.persist(ctx, storage.KeyCategories)
	return append([]string(nil), next...), nil
}

// DeleteCategory: kategori silinir, ürünleri Uncategorized'a taşınır
func (s *State) DeleteCategory(ctx context.Context, actor models.Actor, name string) (int, error) {
	s.mu.Lock()
	prev := s.inventory
	next, categories, moved, err := inventory.DeleteCategory(prev, s.categories, name)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	change := audit.CreateChange(models.ChangeTypeManual, actor, prev, next,
		fmt.Sprintf("Category %q deleted and items moved to %s", name, models.CategoryUncategorized))
	s.commitInventory(next, change)
	s.categories = categories
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return moved, nil
}

// Upload: toplu yükleme. Yeni ürünler miktar farkı listesine girmez, iz açıklamadadır.
func (s *State) Upload(ctx context.Context, actor models.Actor, batch []models.InventoryItem) ([]models.InventoryItem, models.InventoryChange, error) {
	s.mu.Lock()
	prev := s.inventory
	next, added, err := inventory.Ingest(prev, batch)
	if err != nil {
		s.mu.Unlock()
		return nil, models.InventoryChange{}, err
	}
	change := audit.CreateChange(models.ChangeTypeUpload, actor, prev, next,
		fmt.Sprintf("Bulk upload of %d items by %s", len(added), actor.Name))
	s.commitInventory(next, change)
	s.categories = inventory.EnsureCategories(s.categories, added)
	s.mu.Unlock()

	s.log.Info("toplu yükleme", zap.Int("items", len(added)), zap.String("user", actor.ID))
	s.persist(ctx, storage.KeyInventory, storage.KeyCategories, storage.KeyInventoryChanges)
	return added, change, nil
}

// UndoChange: değişikliği telafi eden yeni bir kayıt ekler
func (s *State) UndoChange(ctx context.Context, actor models.Actor, changeID string) (models.InventoryChange, error) {
	s.mu.Lock()
	next, change, err := audit.Revert(s.changes, s.inventory, changeID, actor)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryChange{}, err
	}
	s.commitInventory(next, change)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyInventoryChanges)
	return change, nil
}
