package server

import (
	"errors"
	"strings"

	"cardquant-backend/internal/app"
	"cardquant-backend/internal/audit"
	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/check"
	"cardquant-backend/internal/config"
	"cardquant-backend/internal/dashboard"
	"cardquant-backend/internal/inventory"
	"cardquant-backend/internal/models"
	"cardquant-backend/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

var (
	_ auth.UserDirectory = (*app.State)(nil)
	_ inventory.Service  = (*app.State)(nil)
	_ check.Service      = (*app.State)(nil)
	_ stream.Service     = (*app.State)(nil)
	_ audit.Service      = (*app.State)(nil)
	_ dashboard.Service  = (*app.State)(nil)
)

// ErrorHandler: fiber.Error mesajı aynen döner, diğerleri loglanıp 500 olur
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return c.Status(e.Code).JSON(fiber.Map{
				"error": e.Message,
			})
		}
		log.Error("beklenmeyen hata",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Beklenmeyen sunucu hatası",
		})
	}
}

// New: tüm route'ları kurulu fiber uygulaması
func New(cfg *config.Config, state *app.State, log *zap.Logger) *fiber.App {
	a := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(log),
		BodyLimit:    6 << 20,
	})

	a.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := a.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(state))
	api.Post("/auth/login", auth.LoginHandler(cfg, state))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, state))

	protected.Get("/auth/me", auth.MeHandler(state))
	protected.Post("/auth/logout", auth.LogoutHandler(state))

	// Kullanıcı yönetimi
	users := protected.Group("/users", auth.RequirePermission(models.PermManageUsers))
	users.Get("/", auth.ListUsersHandler(state))
	users.Post("/", auth.CreateUserHandler(state))

	// Envanter
	canView := auth.RequirePermission(models.PermViewInventory, models.PermManageInventory, models.PermView)
	canEdit := auth.RequirePermission(models.PermManageInventory, models.PermEditInventory)
	canDelete := auth.RequirePermission(models.PermManageInventory, models.PermDeleteInventory)
	canManage := auth.RequirePermission(models.PermManageInventory)

	protected.Get("/inventory", canView, inventory.ListItemsHandler(state))
	protected.Post("/inventory", canEdit, inventory.CreateItemHandler(state))
	protected.Put("/inventory", canEdit, inventory.BulkEditHandler(state))
	protected.Post("/inventory/upload", canManage, inventory.UploadHandler(state))
	protected.Post("/inventory/assign-category", canEdit, inventory.AssignCategoryHandler(state))
	protected.Put("/inventory/:id", canEdit, inventory.UpdateItemHandler(state))
	protected.Delete("/inventory/:id", canDelete, inventory.DeleteItemHandler(state))

	// Kategoriler
	protected.Get("/categories", canView, inventory.ListCategoriesHandler(state))
	protected.Post("/categories", canManage, inventory.CreateCategoryHandler(state))
	protected.Delete("/categories/:name", canManage, inventory.DeleteCategoryHandler(state))

	// Sayım
	checks := protected.Group("/checks", auth.RequirePermission(models.PermPerformInventoryCheck))
	checks.Post("/", check.StartCheckHandler(state))
	checks.Get("/", check.ListChecksHandler(state))
	checks.Get("/current", check.CurrentCheckHandler(state))
	checks.Delete("/current", check.AbandonCheckHandler(state))
	checks.Post("/current/items/:id/confirm", check.ConfirmItemHandler(state))
	checks.Put("/current/items/:id", check.SetQuantityHandler(state))
	checks.Post("/current/finish", check.FinishCheckHandler(state))
	checks.Post("/current/apply", check.ApplyCheckHandler(state))
	checks.Post("/current/discard", check.DiscardCheckHandler(state))
	checks.Get("/:id", check.GetCheckHandler(state))

	// Yayınlar
	canSeeStreams := auth.RequirePermission(models.PermViewAllStreams, models.PermViewOwnStreams)
	protected.Get("/streams", canSeeStreams, stream.ListStreamsHandler(state))
	protected.Post("/streams", auth.RequirePermission(models.PermAddStream), stream.SettleStreamHandler(state))
	protected.Get("/streams/mine", canSeeStreams, stream.MyStreamsHandler(state))
	protected.Get("/streams/monthly", canSeeStreams, stream.MonthlyStreamsHandler(state))

	// Değişiklik geçmişi
	protected.Get("/inventory-changes", auth.RequirePermission(models.PermViewReports, models.PermManageInventory), audit.ListChangesHandler(state))
	protected.Post("/inventory-changes/:id/undo", canManage, audit.UndoChangeHandler(state))

	// Dashboard
	protected.Get("/dashboard", dashboard.SummaryHandler(state))
	protected.Get("/dashboard/sales-chart", dashboard.SalesChartHandler(state))

	return a
}
