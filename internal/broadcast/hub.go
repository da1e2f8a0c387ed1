package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

// Change: bir anahtarın yeni değeri ve yazan tarafın kimliği
type Change struct {
	Key    string
	Value  []byte
	Origin string
}

// Listener: OnExternalChange(key, newValue)
type Listener func(key string, value []byte)

type subscriber struct {
	origin   string
	keys     map[string]bool // nil = tüm anahtarlar
	listener Listener
}

// Hub: aynı depoyu paylaşan durum kapları arasında değişiklik bildirimi.
// Kilit ya da işlem yok; en iyi çaba tutarlılığı.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]subscriber
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]subscriber)}
}

// Subscribe: origin'in kendi yazdıkları hariç değişiklikleri dinler.
// keys boşsa tüm anahtarlar. Dönen fonksiyon aboneliği iptal eder.
func (h *Hub) Subscribe(origin string, listener Listener, keys ...string) func() {
	sub := subscriber{origin: origin, listener: listener}
	if len(keys) > 0 {
		sub.keys = make(map[string]bool, len(keys))
		for _, k := range keys {
			sub.keys[k] = true
		}
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subscribers, id)
		h.mu.Unlock()
	}
}

// Publish: değişikliği yazan hariç tüm abonelere senkron iletir
func (h *Hub) Publish(change Change) {
	h.mu.RLock()
	targets := make([]Listener, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		if sub.origin == change.Origin {
			continue
		}
		if sub.keys != nil && !sub.keys[change.Key] {
			continue
		}
		targets = append(targets, sub.listener)
	}
	h.mu.RUnlock()

	for _, l := range targets {
		value := make([]byte, len(change.Value))
		copy(value, change.Value)
		l(change.Key, value)
	}
}

// Subscribers: aktif abone sayısı
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
