package inventory

import (
	"context"
	"errors"
	"strings"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Service: envanter mutasyonları (uygulama durumu tarafından sağlanır)
type Service interface {
	Inventory() []models.InventoryItem
	Categories() []string
	AddItem(ctx context.Context, actor models.Actor, in ItemInput) (models.InventoryItem, error)
	UpdateItem(ctx context.Context, actor models.Actor, id string, patch ItemPatch) (models.InventoryItem, error)
	BulkEdit(ctx context.Context, actor models.Actor, edited []models.InventoryItem) (models.InventoryChange, error)
	DeleteItem(ctx context.Context, actor models.Actor, id string) (models.InventoryItem, error)
	AssignCategory(ctx context.Context, actor models.Actor, ids []string, category string) (int, error)
	AddCategory(ctx context.Context, name string) ([]string, error)
	DeleteCategory(ctx context.Context, actor models.Actor, name string) (int, error)
	Upload(ctx context.Context, actor models.Actor, batch []models.InventoryItem) ([]models.InventoryItem, models.InventoryChange, error)
}

var validate = validator.New()

// maxUploadSize: 5 MB
const maxUploadSize = 5 << 20

type ItemResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Category string           `json:"category"`
}

// toItemResponse: view_costs yetkisi yoksa maliyet alanları gizlenir
func toItemResponse(item models.InventoryItem, showCosts bool) ItemResponse {
	res := ItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Category: item.Category,
	}
	if showCosts {
		cost := item.Cost
		value := item.Value()
		res.Cost = &cost
		res.Value = &value
	}
	return res
}

func toItemResponses(items []models.InventoryItem, showCosts bool) []ItemResponse {
	res := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toItemResponse(item, showCosts))
	}
	return res
}

type BulkEditRequest struct {
	Items []models.InventoryItem `json:"items" validate:"required"`
}

type AssignCategoryRequest struct {
	IDs      []string `json:"ids" validate:"required,min=1"`
	Category string   `json:"category" validate:"required"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrCategoryNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrCategoryExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidItem),
		errors.Is(err, ErrCategoryRequired),
		errors.Is(err, ErrCategoryProtected),
		errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrNoValidRows),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrMissingColumn):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// GET /api/inventory?search=&category=&grouped=true
func ListItemsHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		showCosts := auth.HasPermission(user, models.PermViewCosts)

		items := Search(svc.Inventory(), c.Query("search"), c.Query("category", "all"))

		if c.QueryBool("grouped") {
			groups := GroupByCategory(items)
			res := make([]fiber.Map, 0, len(groups))
			for _, g := range groups {
				entry := fiber.Map{
					"category": g.Category,
					"items":    toItemResponses(g.Items, showCosts),
				}
				if showCosts {
					entry["value"] = g.Value
				}
				res = append(res, entry)
			}
			return c.JSON(res)
		}

		return c.JSON(toItemResponses(items, showCosts))
	}
}

// POST /api/inventory
func CreateItemHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body ItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu, miktar negatif olamaz")
		}

		item, err := svc.AddItem(c.UserContext(), user.Actor(), body)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toItemResponse(item, true))
	}
}

// PUT /api/inventory/:id
func UpdateItemHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body ItemPatch
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		item, err := svc.UpdateItem(c.UserContext(), user.Actor(), c.Params("id"), body)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(toItemResponse(item, true))
	}
}

// PUT /api/inventory (düzenleme modunun toplu kaydı)
func BulkEditHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body BulkEditRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün listesi zorunlu")
		}

		change, err := svc.BulkEdit(c.UserContext(), user.Actor(), body.Items)
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(change)
	}
}

// DELETE /api/inventory/:id
func DeleteItemHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		if _, err := svc.DeleteItem(c.UserContext(), user.Actor(), c.Params("id")); err != nil {
			return toFiberError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/inventory/assign-category
func AssignCategoryHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body AssignCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün seçimi ve kategori zorunlu")
		}

		updated, err := svc.AssignCategory(c.UserContext(), user.Actor(), body.IDs, strings.TrimSpace(body.Category))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"updated": updated})
	}
}

// POST /api/inventory/upload (multipart, alan adı "file")
func UploadHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya bulunamadı")
		}
		if fh.Size > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya boyutu 5MB'dan büyük olamaz")
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya okunamadı")
		}
		defer f.Close()

		batch, err := ParseBatch(fh.Filename, f)
		if err != nil {
			return toFiberError(err)
		}

		added, change, err := svc.Upload(c.UserContext(), user.Actor(), batch)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"added":  len(added),
			"items":  toItemResponses(added, true),
			"change": change,
		})
	}
}

// GET /api/categories
func ListCategoriesHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Categories())
	}
}

// POST /api/categories
func CreateCategoryHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı zorunlu")
		}

		categories, err := svc.AddCategory(c.UserContext(), body.Name)
		if err != nil {
			return toFiberError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(categories)
	}
}

// DELETE /api/categories/:name
func DeleteCategoryHandler(svc Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		moved, err := svc.DeleteCategory(c.UserContext(), user.Actor(), c.Params("name"))
		if err != nil {
			return toFiberError(err)
		}
		return c.JSON(fiber.Map{"moved": moved})
	}
}
