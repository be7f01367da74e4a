package pageturn

import (
	"errors"
	"fmt"
	"log/slog"

	"menubook/internal/deck"
)

// ErrEngineUnavailable is fatal for the session: it is reported, not retried
var ErrEngineUnavailable = errors.New("page-turn engine is unavailable")

type flipHandler struct {
	id int
	fn func(index int)
}

type orientationHandler struct {
	id int
	fn func(Orientation)
}

// Adapter wraps an engine behind named methods per event
type Adapter struct {
	engine Engine
	logger *slog.Logger

	nextID        int
	flipHandlers  []flipHandler
	orientHandler []orientationHandler
}

// Attach loads the deck into the engine and starts listening to it
func Attach(engine Engine, d *deck.Deck, logger *slog.Logger) (*Adapter, error) {
	if engine == nil {
		return nil, ErrEngineUnavailable
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := engine.Load(d.Elements()); err != nil {
		return nil, fmt.Errorf("%w: load failed: %v", ErrEngineUnavailable, err)
	}
	if got := engine.PageCount(); got != d.Count() {
		return nil, fmt.Errorf("%w: engine reports %d pages, deck has %d", ErrEngineUnavailable, got, d.Count())
	}

	a := &Adapter{engine: engine, logger: logger}
	engine.On(EventFlip, a.handleFlip)
	engine.On(EventChangeOrientation, a.handleOrientation)
	return a, nil
}

// CurrentIndex returns the engine's own cursor
func (a *Adapter) CurrentIndex() int {
	return a.engine.CurrentPageIndex()
}

// RequestGoTo commands the engine to animate to index. Returns false when the
// engine is already there and nothing was issued.
func (a *Adapter) RequestGoTo(index int) bool {
	if index == a.engine.CurrentPageIndex() {
		return false
	}
	a.logger.Debug("engine flip requested", "from", a.engine.CurrentPageIndex(), "to", index)
	a.engine.Flip(index, CornerTop)
	return true
}

// OnEngineFlip registers a handler for engine cursor changes
func (a *Adapter) OnEngineFlip(fn func(index int)) func() {
	a.nextID++
	id := a.nextID
	a.flipHandlers = append(a.flipHandlers, flipHandler{id: id, fn: fn})
	return func() {
		for i, h := range a.flipHandlers {
			if h.id == id {
				a.flipHandlers = append(a.flipHandlers[:i:i], a.flipHandlers[i+1:]...)
				return
			}
		}
	}
}

// OnOrientationChange registers a handler for viewport reflows
func (a *Adapter) OnOrientationChange(fn func(Orientation)) func() {
	a.nextID++
	id := a.nextID
	a.orientHandler = append(a.orientHandler, orientationHandler{id: id, fn: fn})
	return func() {
		for i, h := range a.orientHandler {
			if h.id == id {
				a.orientHandler = append(a.orientHandler[:i:i], a.orientHandler[i+1:]...)
				return
			}
		}
	}
}

func (a *Adapter) handleFlip(e Event) {
	a.logger.Debug("engine flipped", "index", e.Index)
	handlers := make([]flipHandler, len(a.flipHandlers))
	copy(handlers, a.flipHandlers)
	for _, h := range handlers {
		h.fn(e.Index)
	}
}

func (a *Adapter) handleOrientation(e Event) {
	a.logger.Debug("engine orientation changed", "orientation", e.Orientation)
	handlers := make([]orientationHandler, len(a.orientHandler))
	copy(handlers, a.orientHandler)
	for _, h := range handlers {
		h.fn(e.Orientation)
	}
}
