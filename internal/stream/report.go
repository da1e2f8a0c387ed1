package stream

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cardquant-backend/internal/models"

	"github.com/shopspring/decimal"
)

type SortField string

const (
	SortByDate     SortField = "date"
	SortByStreamer SortField = "streamer"
	SortByPlatform SortField = "platform"
	SortBySales    SortField = "sales"
)

// ListOptions: yayın geçmişi filtre/sıralama
type ListOptions struct {
	Streamer   string // "" veya "all" = hepsi
	SortField  SortField
	Descending bool

	// ViewAll false ise sadece StreamerID'si eşleşen yayınlar
	ViewAll    bool
	StreamerID string
}

// List: filtreler ve sıralar; girdi slice'ı değişmez
func List(streams []models.Stream, opts ListOptions) []models.Stream {
	out := make([]models.Stream, 0, len(streams))
	for _, s := range streams {
		if opts.Streamer != "" && opts.Streamer != "all" && s.Streamer != opts.Streamer {
			continue
		}
		if !opts.ViewAll && s.StreamerID != opts.StreamerID {
			continue
		}
		out = append(out, s)
	}

	less := func(a, b models.Stream) int {
		switch opts.SortField {
		case SortByStreamer:
			return strings.Compare(a.Streamer, b.Streamer)
		case SortByPlatform:
			return strings.Compare(string(a.Platform), string(b.Platform))
		case SortBySales:
			return a.TotalSales.Cmp(b.TotalSales)
		default:
			return strings.Compare(a.Date, b.Date)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if opts.Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Streamers: filtre listesi için benzersiz yayıncı isimleri
func Streamers(streams []models.Stream) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range streams {
		if s.Streamer == "" {
			continue
		}
		if _, ok := seen[s.Streamer]; ok {
			continue
		}
		seen[s.Streamer] = struct{}{}
		out = append(out, s.Streamer)
	}
	sort.Strings(out)
	return out
}

type MonthSummary struct {
	Month       string          `json:"month"` // "2025-12"
	Label       string          `json:"label"` // "December 2025"
	Streams     []models.Stream `json:"streams"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
}

// GroupByMonth: yayın tarihine göre aylık özet, en yeni ay başta.
// Tarihi okunamayan yayınlar "unknown" altında toplanır.
func GroupByMonth(streams []models.Stream) []MonthSummary {
	groups := make(map[string]*MonthSummary)
	for _, s := range streams {
		key, label := "unknown", "Unknown"
		if d, err := time.Parse("2006-01-02", s.Date); err == nil {
			key = d.Format("2006-01")
			label = d.Format("January 2006")
		}
		g, ok := groups[key]
		if !ok {
			g = &MonthSummary{Month: key, Label: label, TotalSales: decimal.Zero, TotalCost: decimal.Zero}
			groups[key] = g
		}
		g.Streams = append(g.Streams, s)
		g.TotalSales = g.TotalSales.Add(s.TotalSales)
		g.TotalCost = g.TotalCost.Add(TotalCost(s.SoldItems))
	}

	out := make([]MonthSummary, 0, len(groups))
	for _, g := range groups {
		g.GrossProfit = GrossProfit(g.TotalSales, g.TotalCost)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month > out[j].Month
	})
	return out
}

// StreamerStats: "yayınlarım" ekranındaki özet
type StreamerStats struct {
	TotalStreams int                   `json:"totalStreams"`
	TotalSales   decimal.Decimal       `json:"totalSales"`
	TotalCost    decimal.Decimal       `json:"totalCost"`
	TotalProfit  decimal.Decimal       `json:"totalProfit"`
	AverageSales decimal.Decimal       `json:"averageSales"`
	BestPlatform models.StreamPlatform `json:"bestPlatform"`
}

// StatsFor: streamerID'ye ait yayınların özeti; yayın yoksa nil
func StatsFor(streams []models.Stream, streamerID string) *StreamerStats {
	if streamerID == "" {
		return nil
	}
	stats := StreamerStats{TotalSales: decimal.Zero, TotalCost: decimal.Zero}
	platforms := make(map[models.StreamPlatform]int)
	for _, s := range streams {
		if s.StreamerID != streamerID {
			continue
		}
		stats.TotalStreams++
		stats.TotalSales = stats.TotalSales.Add(s.TotalSales)
		stats.TotalCost = stats.TotalCost.Add(TotalCost(s.SoldItems))
		platforms[s.Platform]++
	}
	if stats.TotalStreams == 0 {
		return nil
	}

	stats.TotalProfit = GrossProfit(stats.TotalSales, stats.TotalCost)
	stats.AverageSales = stats.TotalSales.Div(decimal.NewFromInt(int64(stats.TotalStreams)))

	best := 0
	for _, p := range []models.StreamPlatform{models.PlatformTikTok, models.PlatformFanatics} {
		if platforms[p] > best {
			best = platforms[p]
			stats.BestPlatform = p
		}
	}
	return &stats
}

// Duration: "19:00" - "21:30" arası süre. Bitiş başlangıçtan önceyse gece yarısı geçilmiş sayılır.
func Duration(startTime, endTime string) (time.Duration, error) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, fmt.Errorf("başlangıç saati okunamadı: %w", err)
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return 0, fmt.Errorf("bitiş saati okunamadı: %w", err)
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d, nil
}

// FormatDuration: 2h 30m
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
