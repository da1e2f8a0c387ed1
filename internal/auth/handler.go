package auth

import (
	"context"
	"errors"
	"strings"

	"cardquant-backend/internal/config"
	"cardquant-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken  = errors.New("bu email zaten kayıtlı")
	ErrAdminExists = errors.New("zaten bir admin var")
)

// UserDirectory: kullanıcı kayıtlarına erişim (uygulama durumu tarafından sağlanır)
type UserDirectory interface {
	Users() []models.User
	FindUserByID(id string) (models.User, bool)
	FindUserByEmail(email string) (models.User, bool)
	CreateUser(ctx context.Context, user models.User) error
	// CreateFirstAdmin: admin yoksa ekler; kontrol ve ekleme tek kilit altında
	CreateFirstAdmin(ctx context.Context, user models.User) error
	SetCurrentUser(ctx context.Context, user *models.User)
}

var validate = validator.New()

type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name        string              `json:"name" validate:"required"`
	Email       string              `json:"email" validate:"required,email"`
	Password    string              `json:"password" validate:"required,min=8"`
	Role        models.UserRole     `json:"role" validate:"required,oneof=admin manager streamer"`
	StreamerID  string              `json:"streamerId"`
	Permissions []models.Permission `json:"permissions"`
}

type UserResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        models.UserRole     `json:"role"`
	StreamerID  string              `json:"streamerId,omitempty"`
	Permissions []models.Permission `json:"permissions"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		StreamerID:  u.StreamerID,
		Permissions: u.Permissions,
	}
}

// NewUser: şifreyi hashler, yetki verilmemişse rol varsayılanlarını atar
func NewUser(name, email, password string, role models.UserRole, streamerID string, perms []models.Permission) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	if len(perms) == 0 {
		perms = PermissionsFor(role)
	}
	return models.User{
		ID:           models.NewID(models.PrefixUser),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(strings.ToLower(email)),
		PasswordHash: string(hash),
		Role:         role,
		StreamerID:   streamerID,
		Permissions:  perms,
	}, nil
}

// POST /api/auth/register-admin (sadece hiç admin yoksa)
func RegisterAdminHandler(dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre (en az 8 karakter) zorunlu")
		}

		user, err := NewUser(body.Name, body.Email, body.Password, models.RoleAdmin, "", nil)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}
		if err := dir.CreateFirstAdmin(c.UserContext(), user); err != nil {
			if errors.Is(err, ErrAdminExists) {
				return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin var")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, ok := dir.FindUserByEmail(strings.TrimSpace(strings.ToLower(body.Email)))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}
		dir.SetCurrentUser(c.UserContext(), &user)

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

// GET /api/auth/me
func MeHandler(dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := CurrentUser(c)
		if err != nil {
			return err
		}
		user, ok := dir.FindUserByID(current.ID)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		return c.JSON(toUserResponse(user))
	}
}

// POST /api/auth/logout
func LogoutHandler(dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dir.SetCurrentUser(c.UserContext(), nil)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/users (manage_users)
func ListUsersHandler(dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users := dir.Users()
		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, toUserResponse(u))
		}
		return c.JSON(res)
	}
}

// POST /api/users (manage_users)
func CreateUserHandler(dir UserDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email, şifre ve rol zorunlu")
		}
		for _, p := range body.Permissions {
			if !p.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "Bilinmeyen yetki: "+string(p))
			}
		}

		user, err := NewUser(body.Name, body.Email, body.Password, body.Role, body.StreamerID, body.Permissions)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}
		if err := dir.CreateUser(c.UserContext(), user); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}
