package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"menubook/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventMenuLoaded          = domain.EventMenuLoaded
	EventMenuLoadFailed      = domain.EventMenuLoadFailed
	EventPageChanged         = domain.EventPageChanged
	EventRefreshPhaseChanged = domain.EventRefreshPhaseChanged
	EventReloadRequested     = domain.EventReloadRequested
	EventOrientationChanged  = domain.EventOrientationChanged
	EventError               = domain.EventError
	EventConfigLoaded        = domain.EventConfigLoaded
	EventConfigSaved         = domain.EventConfigSaved
)

// Re-export domain event types
type MenuLoadedEvent = domain.MenuLoadedEvent
type MenuLoadFailedEvent = domain.MenuLoadFailedEvent
type PageChangedEvent = domain.PageChangedEvent
type RefreshPhaseChangedEvent = domain.RefreshPhaseChangedEvent
type ReloadRequestedEvent = domain.ReloadRequestedEvent
type OrientationChangedEvent = domain.OrientationChangedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type registration struct {
	id      int
	handler EventHandler
}

// bus delivers events synchronously in the publisher's goroutine, so a
// handler has run by the time Publish returns.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]registration
	nextID   int
	logger   *slog.Logger
}

// New creates a new event bus
func New(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &bus{
		handlers: make(map[EventType][]registration),
		logger:   logger,
	}
}

// Publish delivers an event to all subscribers of its type
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventRefreshPhaseChanged:
	default:
		b.logger.Debug("eventbus: publishing event", "type", string(event.Type()))
	}

	b.mu.RLock()
	regs := b.handlers[event.Type()]
	// Copy to avoid holding the lock while handlers run
	handlersCopy := make([]registration, len(regs))
	copy(handlersCopy, regs)
	b.mu.RUnlock()

	for _, r := range handlersCopy {
		b.call(r.handler, event)
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		regs := b.handlers[eventType]
		for i, r := range regs {
			if r.id == id {
				b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				"type", string(event.Type()), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}
