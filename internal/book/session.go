// Package book wires the page deck, the navigation state, the page-turn
// engine, the gesture arbiter and the pull-to-refresh controller into one
// navigable menu book.
package book

import (
	"fmt"
	"log/slog"
	"time"

	"menubook/internal/deck"
	"menubook/internal/eventbus"
	"menubook/internal/gesture"
	"menubook/internal/menu"
	"menubook/internal/navigation"
	"menubook/internal/pageturn"
	"menubook/internal/refresh"
	"menubook/internal/syncview"
)

// Scroller is implemented by scroll regions the session can move
type Scroller interface {
	ScrollBy(delta int)
}

// Options configure a session
type Options struct {
	Engine       pageturn.Engine
	Render       deck.RenderFunc
	Gesture      gesture.Config
	RefreshDelay time.Duration
	Scheduler    refresh.Scheduler
	Bus          eventbus.EventBus
	Logger       *slog.Logger
}

// Session is one built menu book. A reload builds a new session.
type Session struct {
	deck    *deck.Deck
	state   *navigation.State
	adapter *pageturn.Adapter
	engine  pageturn.Engine
	arbiter *gesture.Arbiter
	refresh *refresh.Controller
	tabs    []syncview.Tab
	bus     eventbus.EventBus
	logger  *slog.Logger

	// the engine saw the down of the active sequence
	engineTracking bool
	unsubs         []func()
}

// New builds a session over pages. It fails when the deck is empty or the
// engine cannot take the pages.
func New(pages []menu.Page, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d, err := deck.Build(pages, opts.Render)
	if err != nil {
		return nil, err
	}
	state, err := navigation.NewState(d.Count())
	if err != nil {
		return nil, err
	}
	adapter, err := pageturn.Attach(opts.Engine, d, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		deck:    d,
		state:   state,
		adapter: adapter,
		engine:  opts.Engine,
		arbiter: gesture.NewArbiter(opts.Gesture, logger),
		bus:     opts.Bus,
		logger:  logger,
	}
	for _, p := range d.Pages() {
		s.tabs = append(s.tabs, syncview.Tab{Label: p.NavLabel, Index: p.Index})
	}
	s.refresh = refresh.NewController(opts.RefreshDelay, opts.Scheduler, s.requestReload, logger)

	s.unsubs = append(s.unsubs,
		state.Subscribe(s.onNavigation),
		adapter.OnEngineFlip(func(index int) { state.SetIndex(index) }),
		adapter.OnOrientationChange(s.onOrientation),
		s.refresh.Subscribe(s.onRefreshPhase),
	)

	// the engine may already rest on a page other than the first
	state.SetIndex(adapter.CurrentIndex())

	logger.Info("menu book built", "pages", d.Count())
	return s, nil
}

// Close detaches the session from its engine and listeners
func (s *Session) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

// GoToIndex navigates to index, clamped. Navigating to the current page does
// nothing.
func (s *Session) GoToIndex(index int) {
	s.state.SetIndex(index)
}

// GoToDelta navigates relative to the current page
func (s *Session) GoToDelta(delta int) {
	s.state.Move(delta)
}

// Navigate handles movement in a direction
func (s *Session) Navigate(direction navigation.Direction) {
	s.state.Navigate(direction)
}

// OnNavigationChanged registers a listener for index changes
func (s *Session) OnNavigationChanged(fn func(oldIndex, newIndex int)) func() {
	return s.state.Subscribe(fn)
}

// OnPullToRefreshPhaseChanged registers a listener for refresh phase changes
func (s *Session) OnPullToRefreshPhaseChanged(fn func(oldPhase, newPhase refresh.Phase)) func() {
	return s.refresh.Subscribe(fn)
}

// Current returns the current page index
func (s *Session) Current() int {
	return s.state.Current()
}

// Count returns the number of pages
func (s *Session) Count() int {
	return s.state.Count()
}

// Page returns the deck page at index
func (s *Session) Page(index int) (deck.Page, error) {
	return s.deck.Get(index)
}

// CurrentPage returns the page under the cursor
func (s *Session) CurrentPage() deck.Page {
	p, _ := s.deck.Get(s.state.Current())
	return p
}

// Tabs returns the category tabs in page order
func (s *Session) Tabs() []syncview.Tab {
	out := make([]syncview.Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Controls projects the navigation state onto the indicator, buttons and tabs
func (s *Session) Controls() syncview.View {
	return syncview.Project(s.state.Snapshot(), s.tabs)
}

// RefreshPhase returns the pull-to-refresh phase
func (s *Session) RefreshPhase() refresh.Phase {
	return s.refresh.Phase()
}

// Banner projects the pull-to-refresh phase
func (s *Session) Banner() syncview.RefreshBanner {
	return syncview.Banner(s.refresh.Phase())
}

// PointerDown starts a pointer sequence
func (s *Session) PointerDown(ev gesture.PointerEvent) gesture.Verdict {
	s.refresh.Reset()
	v := s.arbiter.Down(ev)
	s.engineTracking = v.ForwardToEngine
	if v.ForwardToEngine {
		s.forward(pageturn.PointerDown, ev)
	}
	return v
}

// PointerMove feeds a move of the active sequence
func (s *Session) PointerMove(ev gesture.PointerEvent) gesture.Verdict {
	v := s.arbiter.Move(ev)
	s.refresh.Observe(v.Classification)
	s.scrollRegion(v, -v.Step)
	if v.ForwardToEngine {
		s.forward(pageturn.PointerMove, ev)
	}
	return v
}

// PointerUp ends the active sequence
func (s *Session) PointerUp(ev gesture.PointerEvent) gesture.Verdict {
	v := s.arbiter.Up(ev)
	s.scrollRegion(v, -v.Step)
	s.refresh.Release()
	switch {
	case v.ForwardToEngine:
		s.forward(pageturn.PointerUp, ev)
	case s.engineTracking:
		// drop the swipe the engine began tracking on down
		s.forward(pageturn.PointerCancel, ev)
	}
	s.engineTracking = false
	return v
}

// PointerCancel aborts the active sequence
func (s *Session) PointerCancel() gesture.Verdict {
	v := s.arbiter.Cancel()
	s.refresh.Reset()
	if s.engineTracking {
		s.forward(pageturn.PointerCancel, gesture.PointerEvent{})
	}
	s.engineTracking = false
	return v
}

// Wheel scrolls the region under the pointer. Wheel events outside a region
// are suppressed.
func (s *Session) Wheel(ev gesture.WheelEvent) gesture.Verdict {
	v := s.arbiter.Wheel(ev)
	s.scrollRegion(v, v.Step)
	return v
}

// Tick advances the engine animation. It returns true while more frames are
// needed.
func (s *Session) Tick(now time.Time) bool {
	if a, ok := s.engine.(pageturn.Animator); ok {
		return a.Advance(now)
	}
	return false
}

// Resize lays the engine out for the new size
func (s *Session) Resize(width, height int) {
	if v, ok := s.engine.(pageturn.Viewport); ok {
		v.Resize(width, height)
	}
}

// View renders the engine
func (s *Session) View() string {
	if v, ok := s.engine.(pageturn.Viewport); ok {
		return v.View()
	}
	return ""
}

func (s *Session) scrollRegion(v gesture.Verdict, delta int) {
	if v.Class == gesture.ClassPullToRefresh || v.Region == nil || delta == 0 {
		return
	}
	if sc, ok := v.Region.(Scroller); ok {
		sc.ScrollBy(delta)
	}
}

func (s *Session) forward(kind pageturn.PointerKind, ev gesture.PointerEvent) {
	if ng, ok := s.engine.(pageturn.NativeGestures); ok {
		ng.HandlePointer(pageturn.PointerInput{Kind: kind, X: ev.X, Y: ev.Y})
	}
}

func (s *Session) onNavigation(oldIndex, newIndex int) {
	s.adapter.RequestGoTo(newIndex)
	s.publish(eventbus.PageChangedEvent{OldIndex: oldIndex, NewIndex: newIndex, Count: s.state.Count()})
}

func (s *Session) onOrientation(o pageturn.Orientation) {
	s.publish(eventbus.OrientationChangedEvent{Orientation: string(o)})
}

func (s *Session) onRefreshPhase(oldPhase, newPhase refresh.Phase) {
	s.publish(eventbus.RefreshPhaseChangedEvent{From: oldPhase.String(), To: newPhase.String()})
}

func (s *Session) requestReload() {
	s.logger.Info("reload requested", "reason", "pull")
	s.publish(eventbus.ReloadRequestedEvent{Reason: "pull"})
}

func (s *Session) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// String implements fmt.Stringer for log lines
func (s *Session) String() string {
	return fmt.Sprintf("book(%d/%d)", s.state.Current()+1, s.state.Count())
}
