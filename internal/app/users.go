package app

import (
	"context"
	"strings"

	"cardquant-backend/internal/auth"
	"cardquant-backend/internal/models"
	"cardquant-backend/internal/storage"

	"go.uber.org/zap"
)

func (s *State) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

func (s *State) FindUserByID(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *State) FindUserByEmail(email string) (models.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *State) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Email == user.Email {
			s.mu.Unlock()
			return auth.ErrEmailTaken
		}
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyUsers)
	return nil
}

func (s *State) CreateFirstAdmin(ctx context.Context, user models.User) error {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			s.mu.Unlock()
			return auth.ErrAdminExists
		}
		if u.Email == user.Email {
			s.mu.Unlock()
			return auth.ErrEmailTaken
		}
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyUsers)
	return nil
}

// SetCurrentUser: son giriş yapan kullanıcıyı (şifre hash'i olmadan) kaydeder; nil = çıkış
func (s *State) SetCurrentUser(ctx context.Context, user *models.User) {
	var value any
	if user != nil {
		u := *user
		u.PasswordHash = ""
		value = u
	}
	if err := storage.SaveValue(context.WithoutCancel(ctx), s.store, storage.KeyCurrentUser, value); err != nil {
		s.log.Warn("current_user kaydedilemedi", zap.Error(err))
	}
}
