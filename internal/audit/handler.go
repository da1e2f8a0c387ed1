package audit

import (
	"context"
	"errors"
	"time"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Service: değişiklik ledger'ı ve geri alma (uygulama durumu tarafından sağlanır)
type Service interface {
	Changes() []models.InventoryChange
	UndoChange(ctx context.Context, actor models.Actor, changeID string) (models.InventoryChange, error)
}

// parseDay: "2025-12-09" formatı
func parseDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GET /api/inventory-changes?type=&userId=&itemId=&from=&to=
func ListChangesHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Type:   models.ChangeType(c.Query("type")),
			UserID: c.Query("userId"),
			ItemID: c.Query("itemId"),
		}
		if f.Type != "" && !f.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz değişiklik tipi")
		}

		from, err := parseDay(c.Query("from"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from formatı YYYY-MM-DD olmalı")
		}
		to, err := parseDay(c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to formatı YYYY-MM-DD olmalı")
		}
		if to != nil {
			// gün sonuna kadar dahil
			end := to.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}
		f.From, f.To = from, to

		return c.JSON(f.Apply(svc.Changes()))
	}
}

// POST /api/inventory-changes/:id/undo
func UndoChangeHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		change, err := svc.UndoChange(c.UserContext(), user.Actor(), c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, ErrChangeNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrAlreadyReverted), errors.Is(err, ErrRevertOfRevert):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrNothingToRevert):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(change)
	}
}
