package network

import (
	"sync"
	"sync/atomic"

	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Размер личного буфера подписчика
const subscriberBuffer = 100

// Broadcaster занимается только рассылкой снимков подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerResponse
	dropped     atomic.Uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал для сессии
func (b *Broadcaster) Register(sessionID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, subscriberBuffer)
	b.subscribers[sessionID] = ch
	return ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast).
// Не блокирует: при полном буфере снимок теряется, следующий его заменит.
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		b.dropped.Add(1)
		logger.Log.WithFields(logrus.Fields{
			"component":  "broadcaster",
			"session_id": sessionID,
		}).Warn("Hub: channel full, snapshot dropped")
		return false
	}
}

// Broadcast отправляет всем (например, уведомление об остановке сервера).
// Возвращает, скольким подписчикам сообщение ушло.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
			sent++
		default:
			b.dropped.Add(1)
		}
	}
	return sent
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько снимков потеряно из-за полных буферов
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
