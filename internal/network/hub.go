package network

import (
	"sync"

	"scene-manager/pkg/api"
)

// SessionBuffer is the per-session queue length. A session that falls this far
// behind starts losing messages instead of stalling the panel loop.
const SessionBuffer = 64

// Broadcaster fans panel responses out to shell sessions.
type Broadcaster struct {
	mu sync.RWMutex
	// session id -> personal channel
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register creates the session channel, closing any previous one under the same id.
func (b *Broadcaster) Register(session string) <-chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[session]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, SessionBuffer)
	b.subscribers[session] = ch
	return ch
}

// Unregister closes and removes the session channel.
func (b *Broadcaster) Unregister(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[session]; ok {
		close(ch)
		delete(b.subscribers, session)
	}
}

// SendTo delivers to one session. It reports false when the session is unknown
// or its buffer is full.
func (b *Broadcaster) SendTo(session string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[session]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

// Broadcast delivers to every session, skipping full ones. It returns how many
// sessions received the message.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
			sent++
		default:
		}
	}
	return sent
}

func (b *Broadcaster) HasSubscriber(session string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[session]
	return ok
}

// SubscriberCount returns the number of connected sessions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
