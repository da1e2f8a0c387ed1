package check

import (
	"errors"
	"fmt"
	"time"

	"cardquant-backend/internal/audit"
	"cardquant-backend/internal/models"
)

type State string

const (
	StateNotStarted    State = "not_started"
	StateInProgress    State = "in_progress"
	StatePendingReview State = "pending_review"
	StateApplied       State = "applied"
	StateDiscarded     State = "discarded"
	StateClosed        State = "closed"
)

var (
	ErrNotInProgress     = errors.New("sayım devam etmiyor")
	ErrNotPendingReview  = errors.New("onay bekleyen sayım yok")
	ErrCheckItemNotFound = errors.New("sayım satırı bulunamadı")
	ErrAlreadyConfirmed  = errors.New("bu satır zaten doğru olarak işaretlenmiş")
	ErrNegativeQuantity  = errors.New("sayılan miktar negatif olamaz")
	ErrUncheckedItems    = errors.New("sayım bitirilmeden önce tüm ürünler kontrol edilmeli")
)

// UncheckedError: kontrol edilmemiş satırlar varken bitirme denemesi.
// errors.Is(err, ErrUncheckedItems) true döner.
type UncheckedError struct {
	Count int
	IDs   []string
}

func (e *UncheckedError) Error() string {
	return fmt.Sprintf("%s (%d ürün kaldı)", ErrUncheckedItems.Error(), e.Count)
}

func (e *UncheckedError) Is(target error) bool {
	return target == ErrUncheckedItems
}

// Session: tek bir envanter sayımı.
// Sayım süresince asıl envantere dokunulmaz; sadece Apply ile güncellenir.
type Session struct {
	state     State
	outcome   State
	startedAt time.Time
	items     []models.CheckItem
	result    *models.InventoryCheck
}

func NewSession() *Session {
	return &Session{state: StateNotStarted}
}

// Start: mevcut envanterin anlık görüntüsünden sayım satırlarını oluşturur
func (s *Session) Start(inventory []models.InventoryItem, now time.Time) error {
	if s.state != StateNotStarted {
		return fmt.Errorf("sayım zaten başlatılmış (durum: %s)", s.state)
	}
	s.items = make([]models.CheckItem, 0, len(inventory))
	for _, item := range inventory {
		s.items = append(s.items, models.CheckItem{
			ID:               item.ID,
			Name:             item.Name,
			ExpectedQuantity: item.Quantity,
			ActualQuantity:   item.Quantity,
		})
	}
	s.startedAt = now
	s.state = StateInProgress
	return nil
}

func (s *Session) State() State { return s.state }

// Outcome: kapanmış oturum için applied/discarded, fark yoksa boş
func (s *Session) Outcome() State { return s.outcome }

func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) Result() *models.InventoryCheck { return s.result }

// Items: satırların kopyası
func (s *Session) Items() []models.CheckItem {
	out := make([]models.CheckItem, len(s.items))
	copy(out, s.items)
	return out
}

// Progress: kontrol edilen / toplam
func (s *Session) Progress() (checked, total int) {
	for _, item := range s.items {
		if item.IsChecked {
			checked++
		}
	}
	return checked, len(s.items)
}

func (s *Session) find(id string) (*models.CheckItem, error) {
	if s.state != StateInProgress {
		return nil, ErrNotInProgress
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, ErrCheckItemNotFound
}

// ConfirmCorrect: "miktar doğru" işaretlemesi
func (s *Session) ConfirmCorrect(id string) error {
	item, err := s.find(id)
	if err != nil {
		return err
	}
	if item.IsChecked && item.IsCorrect {
		return ErrAlreadyConfirmed
	}
	item.IsChecked = true
	item.IsCorrect = true
	item.ActualQuantity = item.ExpectedQuantity
	return nil
}

// SetActualQuantity: sayılan miktarı girer. Üst sınır yok.
func (s *Session) SetActualQuantity(id string, qty int) error {
	if qty < 0 {
		return ErrNegativeQuantity
	}
	item, err := s.find(id)
	if err != nil {
		return err
	}
	item.ActualQuantity = qty
	item.IsChecked = true
	item.IsCorrect = qty == item.ExpectedQuantity
	return nil
}

// Finish: tüm satırlar kontrol edildiyse sayım kaydını üretir.
// Kayıt, sonraki uygula/vazgeç kararından bağımsız olarak ledger'a eklenmelidir.
// Fark yoksa oturum doğrudan kapanır.
func (s *Session) Finish(now time.Time) (models.InventoryCheck, error) {
	if s.state != StateInProgress {
		return models.InventoryCheck{}, ErrNotInProgress
	}

	var unchecked []string
	for _, item := range s.items {
		if !item.IsChecked {
			unchecked = append(unchecked, item.ID)
		}
	}
	if len(unchecked) > 0 {
		return models.InventoryCheck{}, &UncheckedError{Count: len(unchecked), IDs: unchecked}
	}

	missing := 0
	checked := make([]models.CheckedItem, 0, len(s.items))
	for _, item := range s.items {
		if !item.IsCorrect {
			missing++
		}
		checked = append(checked, models.CheckedItem{
			ID:               item.ID,
			Name:             item.Name,
			ExpectedQuantity: item.ExpectedQuantity,
			ActualQuantity:   item.ActualQuantity,
		})
	}

	result := models.InventoryCheck{
		ID:           models.NewID(models.PrefixCheck),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
		CheckedItems: checked,
		IsCorrect:    missing == 0,
		MissingItems: missing,
	}
	s.result = &result

	if missing == 0 {
		s.close("")
	} else {
		s.state = StatePendingReview
	}
	return result, nil
}

// Discrepancies: onay ekranında gösterilen fark listesi
func (s *Session) Discrepancies() []models.Discrepancy {
	if s.result == nil {
		return nil
	}
	return s.result.Discrepancies()
}

// Apply: envanteri sayılan miktarlarla günceller ve "check" tipinde değişiklik kaydı üretir.
// Sayımda olmayan ürünlere (sayım başladıktan sonra eklenenler) dokunulmaz.
func (s *Session) Apply(inventory []models.InventoryItem, actor models.Actor) ([]models.InventoryItem, models.InventoryChange, error) {
	if s.state != StatePendingReview {
		return nil, models.InventoryChange{}, ErrNotPendingReview
	}

	actual := make(map[string]int, len(s.result.CheckedItems))
	for _, item := range s.result.CheckedItems {
		actual[item.ID] = item.ActualQuantity
	}

	next := models.CloneInventory(inventory)
	for i := range next {
		if qty, ok := actual[next[i].ID]; ok {
			next[i].Quantity = qty
		}
	}

	change := audit.CreateChange(models.ChangeTypeCheck, actor, inventory, next, fmt.Sprintf("Inventory check by %s", actor.Name))
	s.close(StateApplied)
	return next, change, nil
}

// Discard: orijinal miktarlar korunur, değişiklik kaydı üretilmez
func (s *Session) Discard() error {
	if s.state != StatePendingReview {
		return ErrNotPendingReview
	}
	s.close(StateDiscarded)
	return nil
}

// Abandon: devam eden sayımdan çıkış. Hiçbir kayıt tutulmaz.
func (s *Session) Abandon() {
	if s.state == StateInProgress || s.state == StateNotStarted {
		s.close(StateDiscarded)
	}
}

func (s *Session) close(outcome State) {
	s.outcome = outcome
	s.state = StateClosed
	s.items = nil
}
