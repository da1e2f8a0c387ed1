package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cardquant-backend/internal/broadcast"
	"cardquant-backend/internal/check"
	"cardquant-backend/internal/models"
	"cardquant-backend/internal/storage"

	"go.uber.org/zap"
)

// Options: State bağımlılıkları
type Options struct {
	Store  storage.Store
	Hub    *broadcast.Hub // nil ise sekmeler arası senkron yok
	Origin string         // boşsa üretilir
	Logger *zap.Logger
	Clock  func() time.Time
}

// State: uygulama durumunun bellekteki tek doğru kaynağı.
// Her mutasyon önce bellekte tamamlanır, değişiklik kaydıyla eşlenir, sonra depoya yazılır.
// Depo hatası bellekteki mutasyonu geri almaz.
type State struct {
	store  storage.Store
	origin string
	log    *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	inventory  []models.InventoryItem
	categories []string
	checks     []models.InventoryCheck
	changes    []models.InventoryChange
	streams    []models.Stream
	users      []models.User
	sessions   map[string]*check.Session // kullanıcı ID -> devam eden sayım

	// Depo yazımlarını sıraya sokar; her yazım o anki en güncel değeri yazar
	persistMu sync.Mutex

	unsubscribe func()
}

func New(opts Options) *State {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	origin := opts.Origin
	if origin == "" {
		origin = models.NewID("tab-")
	}

	s := &State{
		store:      opts.Store,
		origin:     origin,
		log:        log.With(zap.String("origin", origin)),
		now:        clock,
		categories: append([]string(nil), models.DefaultCategories...),
		sessions:   make(map[string]*check.Session),
	}

	if opts.Hub != nil {
		s.store = storage.NewBroadcastingStore(opts.Store, opts.Hub, origin)
		s.unsubscribe = opts.Hub.Subscribe(origin, s.onExternalChange)
	}
	return s
}

// Load: tüm anahtarları depodan okur. Okunamayan anahtar varsayılan değerde kalır.
func (s *State) Load(ctx context.Context) error {
	inventory, err := storage.LoadOr(ctx, s.store, storage.KeyInventory, []models.InventoryItem{})
	if err != nil {
		return err
	}
	categories, err := storage.LoadOr(ctx, s.store, storage.KeyCategories, append([]string(nil), models.DefaultCategories...))
	if err != nil {
		return err
	}
	checks, err := storage.LoadOr(ctx, s.store, storage.KeyInventoryChecks, []models.InventoryCheck{})
	if err != nil {
		return err
	}
	changes, err := storage.LoadOr(ctx, s.store, storage.KeyInventoryChanges, []models.InventoryChange{})
	if err != nil {
		return err
	}
	streams, err := storage.LoadOr(ctx, s.store, storage.KeyStreams, []models.Stream{})
	if err != nil {
		return err
	}
	users, err := storage.LoadOr(ctx, s.store, storage.KeyUsers, []models.User{})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.inventory = inventory
	s.categories = categories
	s.checks = checks
	s.changes = changes
	s.streams = streams
	s.users = users
	s.mu.Unlock()

	s.log.Info("durum yüklendi",
		zap.Int("inventory", len(inventory)),
		zap.Int("streams", len(streams)),
		zap.Int("checks", len(checks)),
		zap.Int("changes", len(changes)),
	)
	return nil
}

// Close: yayın aboneliğini bırakır
func (s *State) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *State) Origin() string { return s.origin }

// onExternalChange: başka bir durum kabının yazdığı değeri belleğe alır
func (s *State) onExternalChange(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch key {
	case storage.KeyInventory:
		err = decodeInto(value, &s.inventory)
	case storage.KeyCategories:
		err = decodeInto(value, &s.categories)
	case storage.KeyInventoryChecks:
		err = decodeInto(value, &s.checks)
	case storage.KeyInventoryChanges:
		err = decodeInto(value, &s.changes)
	case storage.KeyStreams:
		err = decodeInto(value, &s.streams)
	case storage.KeyUsers:
		err = decodeInto(value, &s.users)
	default:
		return
	}
	if err != nil {
		s.log.Warn("dış değişiklik okunamadı", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Debug("dış değişiklik alındı", zap.String("key", key))
}

func decodeInto[T any](raw []byte, dst *T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// valueFor: anahtarın o anki değeri. s.mu tutulurken çağrılmalı.
func (s *State) valueFor(key string) any {
	switch key {
	case storage.KeyInventory:
		return s.inventory
	case storage.KeyCategories:
		return s.categories
	case storage.KeyInventoryChecks:
		return s.checks
	case storage.KeyInventoryChanges:
		return s.changes
	case storage.KeyStreams:
		return s.streams
	case storage.KeyUsers:
		return s.users
	}
	return nil
}

// persist: bellekteki güncel değerleri depoya yazar. Hata loglanır, çağırana dönmez.
func (s *State) persist(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	payloads := make(map[string][]byte, len(keys))
	s.mu.Lock()
	for _, key := range keys {
		raw, err := json.Marshal(s.valueFor(key))
		if err != nil {
			s.log.Error("serileştirme hatası", zap.String("key", key), zap.Error(err))
			continue
		}
		payloads[key] = raw
	}
	s.mu.Unlock()

	for _, key := range keys {
		raw, ok := payloads[key]
		if !ok {
			continue
		}
		if err := s.store.Save(ctx, key, raw); err != nil {
			s.log.Error("depoya yazılamadı, bellekteki durum geçerli", zap.String("key", key), zap.Error(err))
		}
	}
}

// Snapshot getter'ları kopya döner

func (s *State) Inventory() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneInventory(s.inventory)
}

func (s *State) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...)
}

func (s *State) Checks() []models.InventoryCheck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryCheck(nil), s.checks...)
}

func (s *State) Changes() []models.InventoryChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryChange(nil), s.changes...)
}

func (s *State) Streams() []models.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Stream(nil), s.streams...)
}
