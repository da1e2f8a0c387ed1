package app

import (
	"context"

	"cardquant-backend/internal/check"
	"cardquant-backend/internal/models"
	"cardquant-backend/internal/storage"

	"go.uber.org/zap"
)

// StartCheck: kullanıcı için yeni sayım başlatır. Yarım kalan sayım kayıt bırakmadan kapanır.
func (s *State) StartCheck(userID string) (check.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[userID]; ok {
		old.Abandon()
	}
	session := check.NewSession()
	if err := session.Start(s.inventory, s.now()); err != nil {
		return check.View{}, err
	}
	s.sessions[userID] = session
	return session.View(), nil
}

func (s *State) session(userID string) (*check.Session, error) {
	session, ok := s.sessions[userID]
	if !ok {
		return nil, check.ErrNotInProgress
	}
	return session, nil
}

func (s *State) CurrentCheck(userID string) (check.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(userID)
	if err != nil {
		return check.View{}, err
	}
	return session.View(), nil
}

func (s *State) ConfirmCheckItem(userID, itemID string) (check.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(userID)
	if err != nil {
		return check.View{}, err
	}
	if err := session.ConfirmCorrect(itemID); err != nil {
		return check.View{}, err
	}
	return session.View(), nil
}

func (s *State) SetCheckQuantity(userID, itemID string, qty int) (check.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(userID)
	if err != nil {
		return check.View{}, err
	}
	if err := session.SetActualQuantity(itemID, qty); err != nil {
		return check.View{}, err
	}
	return session.View(), nil
}

// FinishCheck: sayım kaydını ledger'a ekler. Fark yoksa oturum kapanır.
func (s *State) FinishCheck(ctx context.Context, userID string) (check.View, error) {
	s.mu.Lock()
	session, err := s.session(userID)
	if err != nil {
		s.mu.Unlock()
		return check.View{}, err
	}
	result, err := session.Finish(s.now())
	if err != nil {
		s.mu.Unlock()
		return check.View{}, err
	}
	s.checks = append(s.checks, result)
	view := session.View()
	if session.State() == check.StateClosed {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	s.log.Info("sayım tamamlandı",
		zap.String("check", result.ID),
		zap.Int("missing", result.MissingItems),
		zap.String("user", userID),
	)
	s.persist(ctx, storage.KeyInventoryChecks)
	return view, nil
}

// ApplyCheck: sayılan miktarları envantere yazar, "check" kaydı ekler
func (s *State) ApplyCheck(ctx context.Context, actor models.Actor) (models.InventoryChange, error) {
	s.mu.Lock()
	session, err := s.session(actor.ID)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryChange{}, err
	}
	next, change, err := session.Apply(s.inventory, actor)
	if err != nil {
		s.mu.Unlock()
		return models.InventoryChange{}, err
	}
	s.commitInventory(next, change)
	delete(s.sessions, actor.ID)
	s.mu.Unlock()

	s.persist(ctx, storage.KeyInventory, storage.KeyInventoryChanges)
	return change, nil
}

// DiscardCheck: orijinal miktarlar korunur
func (s *State) DiscardCheck(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.session(userID)
	if err != nil {
		return err
	}
	if err := session.Discard(); err != nil {
		return err
	}
	delete(s.sessions, userID)
	return nil
}

// AbandonCheck: devam eden sayımdan çıkış, kayıt tutulmaz
func (s *State) AbandonCheck(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		session.Abandon()
		delete(s.sessions, userID)
	}
}
