// Package bus is the in-process publish/subscribe channel that decouples
// status and telemetry observers from the client internals. Two channels
// exist: connection status (bool) and gesture execution (category).
package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

// StatusFunc receives connection-status notifications.
type StatusFunc func(connected bool)

// ExecutedFunc receives gesture-execution notifications.
type ExecutedFunc func(cat gesture.Category)

// Bus fans notifications out to independent subscribers. A panicking
// subscriber must not prevent delivery to the rest, so each callback is
// isolated with its own recover.
type Bus struct {
	mu       sync.RWMutex
	status   map[string]StatusFunc
	executed map[string]ExecutedFunc
	logger   *slog.Logger
}

// New creates an empty bus. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		status:   make(map[string]StatusFunc),
		executed: make(map[string]ExecutedFunc),
		logger:   logger,
	}
}

// SubscribeStatus registers a connection-status observer and returns its
// subscription id. Observers must Unsubscribe before their own teardown.
func (b *Bus) SubscribeStatus(fn StatusFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.status[id] = fn
	return id
}

// SubscribeExecuted registers a gesture-execution observer and returns its
// subscription id.
func (b *Bus) SubscribeExecuted(fn ExecutedFunc) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.NewString()
	b.executed[id] = fn
	return id
}

// Unsubscribe removes a subscription from either channel. Unknown ids are
// a no-op.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.status, id)
	delete(b.executed, id)
}

// PublishStatus notifies all status subscribers.
func (b *Bus) PublishStatus(connected bool) {
	b.mu.RLock()
	subs := make([]StatusFunc, 0, len(b.status))
	for _, fn := range b.status {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		b.deliver(func() { fn(connected) })
	}
}

// PublishExecuted notifies all execution subscribers.
func (b *Bus) PublishExecuted(cat gesture.Category) {
	b.mu.RLock()
	subs := make([]ExecutedFunc, 0, len(b.executed))
	for _, fn := range b.executed {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		b.deliver(func() { fn(cat) })
	}
}

func (b *Bus) deliver(notify func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked", "recovered", r)
		}
	}()
	notify()
}
