package inventory

import (
	"testing"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sample() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "inv-1", Name: "Prizm Box", Quantity: 4, Cost: d("120.50"), Category: "Boxes"},
		{ID: "inv-2", Name: "Topps Pack", Quantity: 20, Cost: d("5"), Category: "Packs"},
		{ID: "inv-3", Name: "Sleeves", Quantity: 0, Cost: d("0.10"), Category: models.CategoryUncategorized},
	}
}

func TestAddItem(t *testing.T) {
	t.Run("valid item gets an id and default category", func(t *testing.T) {
		next, item, err := AddItem(sample(), ItemInput{Name: "  Mosaic Blaster ", Quantity: 2, Cost: d("30")})
		require.NoError(t, err)
		assert.Len(t, next, 4)
		assert.Contains(t, item.ID, models.PrefixItem)
		assert.Equal(t, "Mosaic Blaster", item.Name)
		assert.Equal(t, models.CategoryUncategorized, item.Category)
		assert.Equal(t, item, next[3])
	})

	tests := []struct {
		name string
		in   ItemInput
	}{
		{"empty name", ItemInput{Name: " ", Quantity: 1, Cost: d("1")}},
		{"negative quantity", ItemInput{Name: "x", Quantity: -1, Cost: d("1")}},
		{"zero cost", ItemInput{Name: "x", Quantity: 1, Cost: decimal.Zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sample()
			_, _, err := AddItem(inv, tt.in)
			assert.ErrorIs(t, err, ErrInvalidItem)
			assert.Len(t, inv, 3)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	inv := sample()
	qty := 7
	next, item, err := UpdateItem(inv, "inv-2", ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
	assert.Equal(t, 7, next[1].Quantity)
	assert.Equal(t, 20, inv[1].Quantity, "input snapshot must not change")

	_, _, err = UpdateItem(inv, "inv-404", ItemPatch{Quantity: &qty})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestReplaceAll(t *testing.T) {
	edited := []models.InventoryItem{
		{ID: "inv-1", Name: "Prizm Box", Quantity: 2, Cost: d("120.50"), Category: "Boxes"},
	}
	next, err := ReplaceAll(sample(), edited)
	require.NoError(t, err)
	assert.Equal(t, 2, next[0].Quantity)
	assert.Equal(t, 20, next[1].Quantity)

	_, err = ReplaceAll(sample(), []models.InventoryItem{{ID: "inv-x", Name: "x", Quantity: 1, Cost: d("1")}})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	inv := sample()
	next, deleted, err := DeleteItem(inv, "inv-2")
	require.NoError(t, err)
	assert.Equal(t, "Topps Pack", deleted.Name)
	require.Len(t, next, 2)
	assert.Equal(t, "inv-3", next[1].ID)
	assert.Len(t, inv, 3)
}

func TestAssignCategory(t *testing.T) {
	next, n := AssignCategory(sample(), []string{"inv-1", "inv-3", "inv-missing"}, "Singles")
	assert.Equal(t, 2, n)
	assert.Equal(t, "Singles", next[0].Category)
	assert.Equal(t, "Packs", next[1].Category)
	assert.Equal(t, "Singles", next[2].Category)
}

func TestTotalsAndSearch(t *testing.T) {
	inv := sample()
	assert.True(t, d("582").Equal(TotalValue(inv)), "4*120.50 + 20*5 + 0*0.10")

	inv[2].Quantity = -3
	neg := NegativeItems(inv)
	require.Len(t, neg, 1)
	assert.Equal(t, "inv-3", neg[0].ID)

	assert.Len(t, Search(inv, "PRIZM", "all"), 1)
	assert.Len(t, Search(inv, "", "Packs"), 1)
	assert.Len(t, Search(inv, "", ""), 3)

	groups := GroupByCategory(sample())
	require.Len(t, groups, 3)
	assert.Equal(t, "Boxes", groups[0].Category)
	assert.True(t, d("482").Equal(groups[0].Value))
}
