package models

import "github.com/shopspring/decimal"

type StreamPlatform string

const (
	PlatformTikTok   StreamPlatform = "tiktok"
	PlatformFanatics StreamPlatform = "fanatics"
)

func (p StreamPlatform) Valid() bool {
	return p == PlatformTikTok || p == PlatformFanatics
}

// SoldItem: satış anındaki ürün kimliği ve maliyeti (sonradan envanter değişse de sabit).
// İsim ve maliyet kapatma sırasında envanterden kopyalanır.
type SoldItem struct {
	ID           string          `json:"id" validate:"required"`
	Name         string          `json:"name"`
	Cost         decimal.Decimal `json:"cost"`
	QuantitySold int             `json:"quantitySold" validate:"gt=0"`
}

// Stream: kapanmış canlı satış yayını
type Stream struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`      // "2025-12-09"
	StartTime  string          `json:"startTime"` // "19:00"
	EndTime    string          `json:"endTime"`
	Streamer   string          `json:"streamer"`
	StreamerID string          `json:"streamerId"`
	Sorter     string          `json:"sorter"`
	Platform   StreamPlatform  `json:"platform"`
	TotalSales decimal.Decimal `json:"totalSales"`
	SoldItems  []SoldItem      `json:"soldItems"`
}

// StreamDraft: henüz kapatılmamış yayın (ID yok)
type StreamDraft struct {
	Date       string          `json:"date" validate:"required"`
	StartTime  string          `json:"startTime" validate:"required"`
	EndTime    string          `json:"endTime" validate:"required"`
	Streamer   string          `json:"streamer"`
	StreamerID string          `json:"streamerId"`
	Sorter     string          `json:"sorter" validate:"required"`
	Platform   StreamPlatform  `json:"platform" validate:"required,oneof=tiktok fanatics"`
	TotalSales decimal.Decimal `json:"totalSales"`
	SoldItems  []SoldItem      `json:"soldItems" validate:"dive"`
}
