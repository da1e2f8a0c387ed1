package check

import (
	"context"
	"errors"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Service: kullanıcı başına sayım oturumları (uygulama durumu tarafından sağlanır)
type Service interface {
	Inventory() []models.InventoryItem
	Checks() []models.InventoryCheck
	StartCheck(userID string) (View, error)
	CurrentCheck(userID string) (View, error)
	ConfirmCheckItem(userID, itemID string) (View, error)
	SetCheckQuantity(userID, itemID string, qty int) (View, error)
	FinishCheck(ctx context.Context, userID string) (View, error)
	ApplyCheck(ctx context.Context, actor models.Actor) (models.InventoryChange, error)
	DiscardCheck(userID string) error
	AbandonCheck(userID string)
}

type SetQuantityRequest struct {
	ActualQuantity *int `json:"actualQuantity"`
}

// ItemValueView: sayım satırı + beklenen miktar değeri (view_costs)
type ItemValueView struct {
	models.CheckItem
	Value *decimal.Decimal `json:"value,omitempty"`
}

type SessionResponse struct {
	View
	Items []ItemValueView `json:"items"`
}

type CheckSummary struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	IsCorrect    bool   `json:"isCorrect"`
	MissingItems int    `json:"missingItems"`
	ItemCount    int    `json:"itemCount"`
}

func toFiberError(err error) error {
	var unchecked *UncheckedError
	switch {
	case errors.As(err, &unchecked):
		return fiber.NewError(fiber.StatusBadRequest, unchecked.Error())
	case errors.Is(err, ErrCheckItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotInProgress), errors.Is(err, ErrNotPendingReview), errors.Is(err, ErrAlreadyConfirmed):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNegativeQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func toSessionResponse(v View, inventory []models.InventoryItem, showCosts bool) SessionResponse {
	costs := make(map[string]decimal.Decimal, len(inventory))
	if showCosts {
		for _, item := range inventory {
			costs[item.ID] = item.Cost
		}
	}

	items := make([]ItemValueView, 0, len(v.Items))
	for _, item := range v.Items {
		row := ItemValueView{CheckItem: item}
		if cost, ok := costs[item.ID]; ok {
			value := cost.Mul(decimal.NewFromInt(int64(item.ExpectedQuantity)))
			row.Value = &value
		}
		items = append(items, row)
	}
	return SessionResponse{View: v, Items: items}
}

func respond(c *fiber.Ctx, svc Service, user *models.CurrentUser, v View) error {
	return c.JSON(toSessionResponse(v, svc.Inventory(), auth.HasPermission(user, models.PermViewCosts)))
}

// POST /api/checks (yeni sayım; yarım kalan sayım kayıtsız kapanır)
func StartCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		v, err := svc.StartCheck(user.ID)
		if err != nil {
			return toFiberError(err)
		}
		c.Status(fiber.StatusCreated)
		return respond(c, svc, user, v)
	}
}

// GET /api/checks/current
func CurrentCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		v, err := svc.CurrentCheck(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Devam eden sayım yok")
		}
		return respond(c, svc, user, v)
	}
}

// POST /api/checks/current/items/:id/confirm
func ConfirmItemHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		v, err := svc.ConfirmCheckItem(user.ID, c.Params("id"))
		if err != nil {
			return toFiberError(err)
		}
		return respond(c, svc, user, v)
	}
}

// PUT /api/checks/current/items/:id
func SetQuantityHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body SetQuantityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ActualQuantity == nil {
			return fiber.NewError(fiber.StatusBadRequest, "actualQuantity zorunlu")
		}

		v, err := svc.SetCheckQuantity(user.ID, c.Params("id"), *body.ActualQuantity)
		if err != nil {
			return toFiberError(err)
		}
		return respond(c, svc, user, v)
	}
}

// POST /api/checks/current/finish
func FinishCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		v, err := svc.FinishCheck(c.UserContext(), user.ID)
		if err != nil {
			return toFiberError(err)
		}
		return respond(c, svc, user, v)
	}
}

// POST /api/checks/current/apply
func ApplyCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		change, err := svc.ApplyCheck(c.UserContext(), user.Actor())
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(change)
	}
}

// POST /api/checks/current/discard
func DiscardCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if err := svc.DiscardCheck(user.ID); err != nil {
			return toFiberError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/checks/current (sayımdan çık)
func AbandonCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		svc.AbandonCheck(user.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/checks (en yeni başta)
func ListChecksHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		checks := svc.Checks()
		res := make([]CheckSummary, 0, len(checks))
		for i := len(checks) - 1; i >= 0; i-- {
			ch := checks[i]
			res = append(res, CheckSummary{
				ID:           ch.ID,
				Date:         ch.Date,
				Time:         ch.Time,
				IsCorrect:    ch.IsCorrect,
				MissingItems: ch.MissingItems,
				ItemCount:    len(ch.CheckedItems),
			})
		}
		return c.JSON(res)
	}
}

// GET /api/checks/:id
func GetCheckHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, ok := FindCheck(svc.Checks(), c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Sayım bulunamadı")
		}
		return c.JSON(fiber.Map{
			"check":         ch,
			"discrepancies": ch.Discrepancies(),
		})
	}
}
