package stream

import (
	"context"
	"errors"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Service: yayın kayıtları ve kapatma (uygulama durumu tarafından sağlanır)
type Service interface {
	Streams() []models.Stream
	SettleStream(ctx context.Context, actor models.Actor, draft models.StreamDraft) (Settlement, error)
}

var validate = validator.New()

type StreamResponse struct {
	models.Stream
	Duration    string          `json:"duration"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
}

func toStreamResponse(s models.Stream) StreamResponse {
	res := StreamResponse{Stream: s}
	if d, err := Duration(s.StartTime, s.EndTime); err == nil {
		res.Duration = FormatDuration(d)
	}
	res.TotalCost = TotalCost(s.SoldItems)
	res.GrossProfit = GrossProfit(s.TotalSales, res.TotalCost)
	return res
}

func toStreamResponses(streams []models.Stream) []StreamResponse {
	res := make([]StreamResponse, 0, len(streams))
	for _, s := range streams {
		res = append(res, toStreamResponse(s))
	}
	return res
}

// SoldItemRequest: istemci sadece ürün kimliği ve adedi gönderir; isim ve maliyet envanterden gelir
type SoldItemRequest struct {
	ID           string `json:"id" validate:"required"`
	QuantitySold int    `json:"quantitySold" validate:"gt=0"`
}

type SettleStreamRequest struct {
	Date       string                `json:"date" validate:"required"`
	StartTime  string                `json:"startTime" validate:"required"`
	EndTime    string                `json:"endTime" validate:"required"`
	Streamer   string                `json:"streamer"`
	StreamerID string                `json:"streamerId"`
	Sorter     string                `json:"sorter" validate:"required"`
	Platform   models.StreamPlatform `json:"platform" validate:"required,oneof=tiktok fanatics"`
	TotalSales decimal.Decimal       `json:"totalSales"`
	SoldItems  []SoldItemRequest     `json:"soldItems" validate:"dive"`
}

// toDraft: tüm yayınları göremeyen kullanıcı sadece kendi adına yayın kapatabilir
func (r SettleStreamRequest) toDraft(user *models.CurrentUser) models.StreamDraft {
	draft := models.StreamDraft{
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Streamer:   r.Streamer,
		StreamerID: r.StreamerID,
		Sorter:     r.Sorter,
		Platform:   r.Platform,
		TotalSales: r.TotalSales,
		SoldItems:  make([]models.SoldItem, 0, len(r.SoldItems)),
	}
	for _, sold := range r.SoldItems {
		draft.SoldItems = append(draft.SoldItems, models.SoldItem{ID: sold.ID, QuantitySold: sold.QuantitySold})
	}
	if !auth.CanViewAllStreams(user) {
		draft.Streamer = ""
		draft.StreamerID = user.StreamerID
	} else if draft.StreamerID == "" {
		draft.StreamerID = user.StreamerID
	}
	return draft
}

// visibleStreams: yetkiye göre görülebilen yayınlar
func visibleStreams(svc Service, user *models.CurrentUser, opts ListOptions) []models.Stream {
	opts.ViewAll = auth.CanViewAllStreams(user)
	opts.StreamerID = user.StreamerID
	return List(svc.Streams(), opts)
}

// GET /api/streams?streamer=&sort=date|streamer|platform|sales&order=asc|desc
func ListStreamsHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		opts := ListOptions{
			Streamer:   c.Query("streamer"),
			SortField:  SortField(c.Query("sort", string(SortByDate))),
			Descending: c.Query("order", "desc") != "asc",
		}
		streams := visibleStreams(svc, user, opts)

		return c.JSON(fiber.Map{
			"streams":   toStreamResponses(streams),
			"streamers": Streamers(streams),
		})
	}
}

// POST /api/streams (yayını kapat, envanterden düş)
func SettleStreamHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body SettleStreamRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih, saatler, sorter ve platform (tiktok/fanatics) zorunlu")
		}
		result, err := svc.SettleStream(c.UserContext(), user.Actor(), body.toDraft(user))
		if err != nil {
			if errors.Is(err, ErrInvalidDraft) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// GET /api/streams/mine
func MyStreamsHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		mine := List(svc.Streams(), ListOptions{
			SortField:  SortByDate,
			Descending: true,
			StreamerID: user.StreamerID,
		})

		return c.JSON(fiber.Map{
			"streams": toStreamResponses(mine),
			"stats":   StatsFor(mine, user.StreamerID),
		})
	}
}

// GET /api/streams/monthly
func MonthlyStreamsHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		streams := visibleStreams(svc, user, ListOptions{SortField: SortByDate, Descending: true})
		return c.JSON(GroupByMonth(streams))
	}
}
