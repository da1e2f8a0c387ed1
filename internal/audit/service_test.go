package audit

import (
	"testing"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, name string, qty int) models.InventoryItem {
	return models.InventoryItem{ID: id, Name: name, Quantity: qty, Cost: decimal.NewFromInt(1), Category: models.CategoryUncategorized}
}

var alice = models.Actor{ID: "user-1", Name: "Alice"}

func TestDiff(t *testing.T) {
	t.Run("only changed quantities present in both snapshots", func(t *testing.T) {
		prev := []models.InventoryItem{item("a", "Alpha", 5), item("b", "Beta", 2), item("c", "Gamma", 9)}
		next := []models.InventoryItem{item("a", "Alpha", 3), item("b", "Beta", 2), item("d", "Delta", 4)}

		changes := Diff(prev, next)

		require.Len(t, changes, 1)
		assert.Equal(t, models.QuantityChange{
			ItemID:           "a",
			ItemName:         "Alpha",
			PreviousQuantity: 5,
			NewQuantity:      3,
			Difference:       -2,
		}, changes[0])
	})

	t.Run("identical snapshots produce an empty list", func(t *testing.T) {
		inv := []models.InventoryItem{item("a", "Alpha", 5)}
		changes := Diff(inv, inv)
		assert.NotNil(t, changes)
		assert.Empty(t, changes)
	})

	t.Run("order follows next snapshot", func(t *testing.T) {
		prev := []models.InventoryItem{item("a", "A", 1), item("b", "B", 1)}
		next := []models.InventoryItem{item("b", "B", 2), item("a", "A", 3)}
		changes := Diff(prev, next)
		require.Len(t, changes, 2)
		assert.Equal(t, "b", changes[0].ItemID)
		assert.Equal(t, "a", changes[1].ItemID)
	})

	t.Run("difference equals new minus previous", func(t *testing.T) {
		prev := []models.InventoryItem{item("a", "A", 10), item("b", "B", 0), item("c", "C", 7)}
		next := []models.InventoryItem{item("a", "A", -3), item("b", "B", 12), item("c", "C", 8)}
		for _, qc := range Diff(prev, next) {
			assert.Equal(t, qc.NewQuantity-qc.PreviousQuantity, qc.Difference)
			assert.NotZero(t, qc.Difference)
		}
	})
}

func TestCreateChange(t *testing.T) {
	prev := []models.InventoryItem{item("a", "Alpha", 5)}
	next := []models.InventoryItem{item("a", "Alpha", 8)}

	change := CreateChange(models.ChangeTypeManual, alice, prev, next, "Bulk edit by Alice")

	assert.Contains(t, change.ID, models.PrefixChange)
	assert.False(t, change.Timestamp.IsZero())
	assert.Equal(t, models.ChangeTypeManual, change.Type)
	assert.Equal(t, alice, change.User)
	assert.Equal(t, "Bulk edit by Alice", change.Description)
	require.Len(t, change.Changes, 1)
	assert.Equal(t, 3, change.Changes[0].Difference)
	assert.Empty(t, change.RevertOf)
}

func TestCreateChangeUniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		c := CreateChange(models.ChangeTypeManual, alice, nil, nil, "x")
		_, dup := seen[c.ID]
		require.False(t, dup, "duplicate id %s", c.ID)
		seen[c.ID] = struct{}{}
	}
}

func TestPrependKeepsNewestFirst(t *testing.T) {
	first := models.InventoryChange{ID: "change-1"}
	second := models.InventoryChange{ID: "change-2"}

	ledger := Prepend(nil, first)
	ledger2 := Prepend(ledger, second)

	require.Len(t, ledger2, 2)
	assert.Equal(t, "change-2", ledger2[0].ID)
	assert.Equal(t, "change-1", ledger2[1].ID)
	// önceki ledger değişmez
	require.Len(t, ledger, 1)
	assert.Equal(t, "change-1", ledger[0].ID)
}

func TestRevert(t *testing.T) {
	prev := []models.InventoryItem{item("a", "Alpha", 10), item("b", "Beta", 4)}
	next := []models.InventoryItem{item("a", "Alpha", 7), item("b", "Beta", 6)}
	original := CreateChange(models.ChangeTypeStream, alice, prev, next, "Stream on 2025-12-09 by Alice")
	ledger := []models.InventoryChange{original}

	t.Run("applies negated differences and links the original", func(t *testing.T) {
		restored, change, err := Revert(ledger, next, original.ID, alice)
		require.NoError(t, err)

		assert.Equal(t, 10, restored[0].Quantity)
		assert.Equal(t, 4, restored[1].Quantity)
		assert.Equal(t, models.ChangeTypeStream, change.Type)
		assert.Equal(t, original.ID, change.RevertOf)
		assert.Equal(t, "Reverted: Stream on 2025-12-09 by Alice", change.Description)
		require.Len(t, change.Changes, 2)
		assert.Equal(t, 3, change.Changes[0].Difference)
		assert.Equal(t, -2, change.Changes[1].Difference)

		// girdiler değişmez
		assert.Equal(t, 7, next[0].Quantity)
		assert.Empty(t, ledger[0].RevertOf)
	})

	t.Run("items no longer present are skipped", func(t *testing.T) {
		current := []models.InventoryItem{item("b", "Beta", 6)}
		restored, change, err := Revert(ledger, current, original.ID, alice)
		require.NoError(t, err)
		require.Len(t, restored, 1)
		assert.Equal(t, 4, restored[0].Quantity)
		require.Len(t, change.Changes, 1)
	})

	t.Run("a change can be reverted only once", func(t *testing.T) {
		_, change, err := Revert(ledger, next, original.ID, alice)
		require.NoError(t, err)
		withRevert := Prepend(ledger, change)

		_, _, err = Revert(withRevert, next, original.ID, alice)
		assert.ErrorIs(t, err, ErrAlreadyReverted)

		_, _, err = Revert(withRevert, next, change.ID, alice)
		assert.ErrorIs(t, err, ErrRevertOfRevert)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := Revert(ledger, next, "change-missing", alice)
		assert.ErrorIs(t, err, ErrChangeNotFound)

		empty := CreateChange(models.ChangeTypeManual, alice, prev, prev, "Category \"X\" deleted")
		_, _, err = Revert([]models.InventoryChange{empty}, prev, empty.ID, alice)
		assert.ErrorIs(t, err, ErrNothingToRevert)
	})
}
