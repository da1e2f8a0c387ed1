package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile        = errors.New("dosya başlık satırı ve en az bir veri satırı içermeli")
	ErrNoValidRows      = errors.New("dosyada geçerli ürün bulunamadı")
	ErrUnsupportedFile  = errors.New("sadece .csv veya .xlsx dosyası yüklenebilir")
	ErrMissingColumn    = errors.New("zorunlu kolon eksik")
	numericCleanPattern = regexp.MustCompile(`[^0-9.\-]`)
)

// Kolon eşleştirme: başlık bu ifadelerden birini içeriyorsa eşleşir (büyük/küçük harf duyarsız)
var headerSynonyms = []struct {
	column   string
	required bool
	variants []string
}{
	{"name", true, []string{"name", "item name", "product name", "title", "product"}},
	{"quantity", true, []string{"quantity", "qty", "amount", "count", "stock"}},
	{"cost", true, []string{"cost", "price", "cost per", "unit price", "price per unit", "value"}},
	{"category", false, []string{"category", "type", "group", "department"}},
}

// ParseBatch: dosya uzantısına göre CSV veya XLSX okur
func ParseBatch(filename string, r io.Reader) ([]models.InventoryItem, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseWorkbook(r)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ParseCSV: name,quantity,cost[,category] kolonlu CSV
func ParseCSV(r io.Reader) ([]models.InventoryItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV okunamadı: %w", err)
	}
	return parseRows(rows)
}

// ParseWorkbook: ilk sayfadaki tabloyu CSV ile aynı kurallarla okur
func ParseWorkbook(r io.Reader) ([]models.InventoryItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("XLSX açılamadı: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("XLSX okunamadı: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]models.InventoryItem, error) {
	// Boş satırları at
	nonEmpty := make([][]string, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			nonEmpty = append(nonEmpty, row)
		}
	}
	if len(nonEmpty) < 2 {
		return nil, ErrEmptyFile
	}

	columns, err := mapColumns(nonEmpty[0])
	if err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(nonEmpty)-1)
	for _, row := range nonEmpty[1:] {
		item, ok := parseRow(row, columns)
		if ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, ErrNoValidRows
	}
	return items, nil
}

func mapColumns(header []string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := make(map[string]int, len(headerSynonyms))
	for _, syn := range headerSynonyms {
		idx := -1
		for i, h := range normalized {
			if matchesAny(h, syn.variants) {
				idx = i
				break
			}
		}
		if idx < 0 && syn.required {
			return nil, fmt.Errorf("%w: %s (kabul edilen başlıklar: %s)", ErrMissingColumn, syn.column, strings.Join(syn.variants, ", "))
		}
		columns[syn.column] = idx
	}
	return columns, nil
}

func matchesAny(header string, variants []string) bool {
	for _, v := range variants {
		if strings.Contains(header, v) {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(row[idx]), `"`)
}

func parseRow(row []string, columns map[string]int) (models.InventoryItem, bool) {
	name := cell(row, columns["name"])
	if name == "" {
		return models.InventoryItem{}, false
	}

	quantity, ok := parseQuantity(cell(row, columns["quantity"]))
	if !ok || quantity < 0 {
		return models.InventoryItem{}, false
	}

	cost, err := decimal.NewFromString(numericCleanPattern.ReplaceAllString(cell(row, columns["cost"]), ""))
	if err != nil || !cost.IsPositive() {
		return models.InventoryItem{}, false
	}

	return models.InventoryItem{
		ID:       models.NewID(models.PrefixItem),
		Name:     name,
		Quantity: quantity,
		Cost:     cost,
		Category: normalizeCategory(cell(row, columns["category"])),
	}, true
}

// parseQuantity: "12 adet" -> 12, "3.0" -> 3 (ondalık kısım atılır)
func parseQuantity(raw string) (int, bool) {
	cleaned := numericCleanPattern.ReplaceAllString(raw, "")
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i]
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}
