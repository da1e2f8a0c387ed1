package stream

import (
	"testing"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var streamer = models.Actor{ID: "user-2", Name: "Bob"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func stock() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "a", Name: "Prizm Box", Quantity: 5, Cost: d("100"), Category: "Boxes"},
		{ID: "b", Name: "Topps Pack", Quantity: 10, Cost: d("4.5"), Category: "Packs"},
	}
}

func draft(sold ...models.SoldItem) models.StreamDraft {
	return models.StreamDraft{
		Date:       "2025-12-09",
		StartTime:  "19:00",
		EndTime:    "21:30",
		Sorter:     "Carl",
		Platform:   models.PlatformTikTok,
		TotalSales: d("650"),
		SoldItems:  sold,
	}
}

func TestSettle(t *testing.T) {
	inv := stock()
	result, err := Settle(draft(
		SnapshotSoldItem(inv[0], 3),
		SnapshotSoldItem(inv[1], 2),
	), inv, streamer)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inventory[0].Quantity)
	assert.Equal(t, 8, result.Inventory[1].Quantity)
	assert.Equal(t, 5, inv[0].Quantity, "input snapshot must not change")
	assert.Empty(t, result.NegativeStock)

	assert.Contains(t, result.Stream.ID, models.PrefixStream)
	assert.Equal(t, "Bob", result.Stream.Streamer)
	assert.Len(t, result.Stream.SoldItems, 2)

	assert.Equal(t, models.ChangeTypeStream, result.Change.Type)
	assert.Equal(t, "Stream on 2025-12-09 by Bob", result.Change.Description)
	assert.Equal(t, streamer, result.Change.User)
	require.Len(t, result.Change.Changes, 2)
	assert.Equal(t, -3, result.Change.Changes[0].Difference)
	assert.Equal(t, -2, result.Change.Changes[1].Difference)
}

func TestSettleConservesQuantity(t *testing.T) {
	inv := stock()
	result, err := Settle(draft(
		SnapshotSoldItem(inv[1], 2),
		SnapshotSoldItem(inv[1], 3),
		models.SoldItem{ID: "gone", Name: "Deleted Item", Cost: d("1"), QuantitySold: 7},
	), inv, streamer)
	require.NoError(t, err)

	// satılan toplam = 5, envanterde olmayan ürün atlanır
	before, after := 0, 0
	for i := range inv {
		before += inv[i].Quantity
		after += result.Inventory[i].Quantity
	}
	assert.Equal(t, 5, before-after)
	assert.Equal(t, 5, result.Inventory[1].Quantity)
	require.Len(t, result.Change.Changes, 1)
	assert.Equal(t, -5, result.Change.Changes[0].Difference)
}

func TestSettleTakesNameAndCostFromInventory(t *testing.T) {
	inv := stock()
	result, err := Settle(draft(
		models.SoldItem{ID: "a", Name: "Anything", Cost: d("0"), QuantitySold: 2},
		models.SoldItem{ID: "gone", Name: "Deleted Item", Cost: d("3"), QuantitySold: 1},
	), inv, streamer)
	require.NoError(t, err)

	require.Len(t, result.Stream.SoldItems, 2)
	assert.Equal(t, SnapshotSoldItem(inv[0], 2), result.Stream.SoldItems[0])
	// envanterde olmayan satır eski referans olarak kalır
	assert.Equal(t, "Deleted Item", result.Stream.SoldItems[1].Name)
	assert.True(t, d("3").Equal(result.Stream.SoldItems[1].Cost))
	assert.True(t, d("203").Equal(TotalCost(result.Stream.SoldItems)))
}

func TestSettleExposesNegativeStock(t *testing.T) {
	inv := stock()
	result, err := Settle(draft(SnapshotSoldItem(inv[0], 7)), inv, streamer)
	require.NoError(t, err)

	assert.Equal(t, -2, result.Inventory[0].Quantity)
	assert.Equal(t, []NegativeStock{{ItemID: "a", ItemName: "Prizm Box", Quantity: -2}}, result.NegativeStock)
}

func TestSettleExplicitStreamer(t *testing.T) {
	dr := draft()
	dr.Streamer = "Dana"
	dr.StreamerID = "s-9"
	result, err := Settle(dr, stock(), streamer)
	require.NoError(t, err)
	assert.Equal(t, "Dana", result.Stream.Streamer)
	assert.Equal(t, "s-9", result.Stream.StreamerID)
	assert.Equal(t, "Stream on 2025-12-09 by Dana", result.Change.Description)
	assert.Empty(t, result.Change.Changes)
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.StreamDraft)
	}{
		{"missing date", func(d *models.StreamDraft) { d.Date = "" }},
		{"missing start", func(d *models.StreamDraft) { d.StartTime = " " }},
		{"missing end", func(d *models.StreamDraft) { d.EndTime = "" }},
		{"missing sorter", func(d *models.StreamDraft) { d.Sorter = "" }},
		{"unknown platform", func(d *models.StreamDraft) { d.Platform = "youtube" }},
		{"negative sales", func(d *models.StreamDraft) { d.TotalSales = decimal.NewFromInt(-1) }},
		{"zero quantity", func(d *models.StreamDraft) {
			d.SoldItems = []models.SoldItem{{ID: "a", Name: "x", QuantitySold: 0}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := draft()
			tt.mutate(&dr)
			_, err := Settle(dr, stock(), streamer)
			assert.ErrorIs(t, err, ErrInvalidDraft)
		})
	}
}

func TestTotals(t *testing.T) {
	inv := stock()
	sold := []models.SoldItem{SnapshotSoldItem(inv[0], 2), SnapshotSoldItem(inv[1], 4)}
	cost := TotalCost(sold)
	assert.True(t, d("218").Equal(cost))
	assert.True(t, d("432").Equal(GrossProfit(d("650"), cost)))
}
