package logging

import (
	"log/slog"

	"menubook/internal/eventbus"
)

// Attach logs lifecycle events from the bus. The returned func detaches it.
func Attach(bus eventbus.EventBus, logger *slog.Logger) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventMenuLoaded, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.MenuLoadedEvent); ok {
				logger.Info("menu loaded", "source", ev.Source, "pages", ev.Pages)
			}
		}),
		bus.Subscribe(eventbus.EventMenuLoadFailed, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.MenuLoadFailedEvent); ok {
				logger.Error("menu load failed", "source", ev.Source, "error", ev.Err)
			}
		}),
		bus.Subscribe(eventbus.EventOrientationChanged, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.OrientationChangedEvent); ok {
				logger.Debug("orientation changed", "orientation", ev.Orientation)
			}
		}),
		bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ErrorEvent); ok {
				logger.Error(ev.Message, "error", ev.Err)
			}
		}),
		bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ConfigLoadedEvent); ok {
				logger.Info("config loaded", "path", ev.Path)
			}
		}),
		bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ConfigSavedEvent); ok {
				logger.Info("config saved", "path", ev.Path)
			}
		}),
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
