package dashboard

import (
	"fmt"
	"sort"
	"time"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SalesChartPoint struct {
	Label    string          `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	TikTok   decimal.Decimal `json:"tiktok"`
	Fanatics decimal.Decimal `json:"fanatics"`
	Total    decimal.Decimal `json:"total"`
	Streams  int             `json:"streams"`
}

type SalesChartTotals struct {
	TikTok   decimal.Decimal `json:"tiktok"`
	Fanatics decimal.Decimal `json:"fanatics"`
	Total    decimal.Decimal `json:"total"`
}

type SalesChartResponse struct {
	Period      string            `json:"period"` // daily | weekly | monthly
	From        string            `json:"from"`
	To          string            `json:"to"`
	Points      []SalesChartPoint `json:"points"`
	GrandTotals SalesChartTotals  `json:"grandTotals"`
}

// chartWindow: periyot ve adet için [start, end] aralığı. Boş count varsayılanı seçer.
func chartWindow(period string, count int, now time.Time) (string, time.Time, time.Time) {
	loc := now.Location()
	// bugünün 00:00'ı
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch period {
	case "weekly":
		if count <= 0 {
			count = 8
		}
		start := weekStart(end).AddDate(0, 0, -7*(count-1))
		return period, start, end
	case "monthly":
		if count <= 0 {
			count = 12
		}
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start := first.AddDate(0, -(count - 1), 0)
		return period, start, end
	default:
		if count <= 0 {
			count = 7
		}
		return "daily", end.AddDate(0, 0, -(count - 1)), end
	}
}

// weekStart: haftanın pazartesisi
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func bucketOf(period string, day time.Time) time.Time {
	switch period {
	case "weekly":
		return weekStart(day)
	case "monthly":
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	}
	return day
}

// BuildSalesChart: yayın satışlarını periyot bazında platforma göre toplar
func BuildSalesChart(streams []models.Stream, period string, count int, now time.Time) SalesChartResponse {
	period, start, end := chartWindow(period, count, now)

	buckets := make(map[time.Time]*SalesChartPoint)
	for _, s := range streams {
		day, err := time.ParseInLocation("2006-01-02", s.Date, now.Location())
		if err != nil || day.Before(start) || day.After(end) {
			continue
		}
		key := bucketOf(period, day)
		p, ok := buckets[key]
		if !ok {
			p = &SalesChartPoint{Label: key.Format("2006-01-02")}
			buckets[key] = p
		}
		switch s.Platform {
		case models.PlatformTikTok:
			p.TikTok = p.TikTok.Add(s.TotalSales)
		case models.PlatformFanatics:
			p.Fanatics = p.Fanatics.Add(s.TotalSales)
		}
		p.Total = p.Total.Add(s.TotalSales)
		p.Streams++
	}

	// tarih sıralaması
	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]SalesChartPoint, 0, len(keys))
	grand := SalesChartTotals{}
	for _, k := range keys {
		p := *buckets[k]
		points = append(points, p)
		grand.TikTok = grand.TikTok.Add(p.TikTok)
		grand.Fanatics = grand.Fanatics.Add(p.Fanatics)
		grand.Total = grand.Total.Add(p.Total)
	}

	return SalesChartResponse{
		Period:      period,
		From:        start.Format("2006-01-02"),
		To:          end.Format("2006-01-02"),
		Points:      points,
		GrandTotals: grand,
	}
}

// GET /api/dashboard/sales-chart?period=daily&count=7
func SalesChartHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		count := 0
		if raw := c.Query("count"); raw != "" {
			if _, err := fmt.Sscan(raw, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
			}
		}

		streams := svc.Streams()
		if !auth.CanViewAllStreams(user) {
			streams = ownStreams(streams, user.StreamerID)
		}
		return c.JSON(BuildSalesChart(streams, c.Query("period", "daily"), count, time.Now()))
	}
}
