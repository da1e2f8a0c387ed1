package inventory

import (
	"bytes"
	"strings"
	"testing"

	"cardquant-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	t.Run("header synonyms and quoted values", func(t *testing.T) {
		csv := "Product Name,Qty,Unit Price,Department\n" +
			"\"Prizm Box\",\"4\",\"$120.50\",Boxes\n" +
			"Topps Pack,20 pcs,5,\n"

		items, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "Prizm Box", items[0].Name)
		assert.Equal(t, 4, items[0].Quantity)
		assert.True(t, d("120.50").Equal(items[0].Cost))
		assert.Equal(t, "Boxes", items[0].Category)

		assert.Equal(t, 20, items[1].Quantity)
		assert.Equal(t, models.CategoryUncategorized, items[1].Category)
		assert.NotEqual(t, items[0].ID, items[1].ID)
	})

	t.Run("invalid rows are skipped", func(t *testing.T) {
		csv := "name,quantity,cost\n" +
			",1,1\n" + // isim yok
			"Bad Qty,abc,1\n" +
			"Neg,-2,1\n" +
			"Free,1,0\n" +
			"Good,3.9,2.5\n"

		items, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Good", items[0].Name)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("no valid rows", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("name,quantity,cost\nx,,\n"))
		assert.ErrorIs(t, err, ErrNoValidRows)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("name,quantity,cost\n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("missing required column", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("name,cost\nx,1\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Item Name", "Stock", "Cost", "Category"},
		{"Prizm Box", 4, 120.5, "Boxes"},
		{"Broken", "n/a", 1, ""},
		{"Topps Pack", 20, 5, ""},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	items, err := ParseBatch("stock.XLSX", &buf)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Prizm Box", items[0].Name)
	assert.Equal(t, 4, items[0].Quantity)
	assert.True(t, d("120.5").Equal(items[0].Cost))
	assert.Equal(t, models.CategoryUncategorized, items[1].Category)
}

func TestParseBatchRejectsUnknownExtension(t *testing.T) {
	_, err := ParseBatch("stock.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestIngest(t *testing.T) {
	batch := []models.InventoryItem{
		{ID: "ignored", Name: "New Box", Quantity: 1, Cost: d("10")},
	}
	next, added, err := Ingest(sample(), batch)
	require.NoError(t, err)
	require.Len(t, next, 4)
	require.Len(t, added, 1)
	assert.NotEqual(t, "ignored", added[0].ID)
	assert.Equal(t, models.CategoryUncategorized, added[0].Category)

	_, _, err = Ingest(sample(), nil)
	assert.ErrorIs(t, err, ErrNoValidRows)
}
