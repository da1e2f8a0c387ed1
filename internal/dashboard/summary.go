package dashboard

import (
	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/inventory"
	"cardquant-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Service: özet için okunan veriler (uygulama durumu tarafından sağlanır)
type Service interface {
	Inventory() []models.InventoryItem
	Streams() []models.Stream
	Checks() []models.InventoryCheck
	Changes() []models.InventoryChange
}

type Summary struct {
	ItemCount     int                     `json:"itemCount"`
	TotalUnits    int                     `json:"totalUnits"`
	TotalValue    *decimal.Decimal        `json:"totalValue,omitempty"`
	StreamCount   int                     `json:"streamCount"`
	TotalSales    decimal.Decimal         `json:"totalSales"`
	LastCheck     *models.InventoryCheck  `json:"lastCheck,omitempty"`
	LastChange    *models.InventoryChange `json:"lastChange,omitempty"`
	NegativeItems []models.InventoryItem  `json:"negativeItems"`
}

func ownStreams(streams []models.Stream, streamerID string) []models.Stream {
	out := make([]models.Stream, 0)
	for _, s := range streams {
		if streamerID != "" && s.StreamerID == streamerID {
			out = append(out, s)
		}
	}
	return out
}

// BuildSummary: envanter, yayın ve sayım özetini hesaplar
func BuildSummary(items []models.InventoryItem, streams []models.Stream, checks []models.InventoryCheck, changes []models.InventoryChange, showCosts bool) Summary {
	sum := Summary{
		ItemCount:     len(items),
		StreamCount:   len(streams),
		TotalSales:    decimal.Zero,
		NegativeItems: inventory.NegativeItems(items),
	}
	for _, item := range items {
		sum.TotalUnits += item.Quantity
	}
	if showCosts {
		v := inventory.TotalValue(items)
		sum.TotalValue = &v
	}
	for _, s := range streams {
		sum.TotalSales = sum.TotalSales.Add(s.TotalSales)
	}
	// sayımlar kronolojik, değişiklikler en yeni başta
	if len(checks) > 0 {
		last := checks[len(checks)-1]
		sum.LastCheck = &last
	}
	if len(changes) > 0 {
		last := changes[0]
		sum.LastChange = &last
	}
	return sum
}

// GET /api/dashboard
func SummaryHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		streams := svc.Streams()
		if !auth.CanViewAllStreams(user) {
			streams = ownStreams(streams, user.StreamerID)
		}

		return c.JSON(BuildSummary(
			svc.Inventory(),
			streams,
			svc.Checks(),
			svc.Changes(),
			auth.HasPermission(user, models.PermViewCosts),
		))
	}
}
