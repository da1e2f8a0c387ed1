package auth

import (
	"strings"

	"cardquant-backend/internal/config"
	"cardquant-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxCurrentUserKey = "current_user"

// JWTMiddleware: Bearer token'ı doğrular, kullanıcıyı dizinden çözüp locals'a koyar
func JWTMiddleware(cfg *config.Config, dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		// Yetkiler token'dan değil dizinden okunur, böylece değişiklikler hemen geçerli olur
		user, ok := dir.FindUserByID(claims.UserID)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
		}

		current := user.Current()
		c.Locals(CtxCurrentUserKey, &current)
		return c.Next()
	}
}

// CurrentUser: middleware'in koyduğu kullanıcı
func CurrentUser(c *fiber.Ctx) (*models.CurrentUser, error) {
	u, ok := c.Locals(CtxCurrentUserKey).(*models.CurrentUser)
	if !ok || u == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return u, nil
}

// RequirePermission: verilen yetkilerden en az biri gerekli
func RequirePermission(perms ...models.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		for _, p := range perms {
			if HasPermission(user, p) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}
