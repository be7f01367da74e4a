package book

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menubook/internal/deck"
	"menubook/internal/eventbus"
	"menubook/internal/flipbook"
	"menubook/internal/gesture"
	"menubook/internal/menu"
	"menubook/internal/navigation"
	"menubook/internal/pageturn"
	"menubook/internal/refresh"
)

// fakeEngine settles every flip immediately
type fakeEngine struct {
	count    int
	current  int
	flips    []int
	inputs   []pageturn.PointerKind
	handlers map[pageturn.EventName][]func(pageturn.Event)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{handlers: make(map[pageturn.EventName][]func(pageturn.Event))}
}

func (f *fakeEngine) Load(pages []deck.Element) error {
	f.count = len(pages)
	return nil
}

func (f *fakeEngine) Flip(index int, _ pageturn.Corner) {
	f.flips = append(f.flips, index)
	f.settle(index)
}

func (f *fakeEngine) CurrentPageIndex() int { return f.current }
func (f *fakeEngine) PageCount() int        { return f.count }

func (f *fakeEngine) On(name pageturn.EventName, h func(pageturn.Event)) {
	f.handlers[name] = append(f.handlers[name], h)
}

func (f *fakeEngine) HandlePointer(in pageturn.PointerInput) {
	f.inputs = append(f.inputs, in.Kind)
}

func (f *fakeEngine) settle(index int) {
	if index == f.current {
		return
	}
	f.current = index
	for _, h := range f.handlers[pageturn.EventFlip] {
		h(pageturn.Event{Name: pageturn.EventFlip, Index: index})
	}
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	pending []scheduled
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) {
	s.pending = append(s.pending, scheduled{delay: d, fn: fn})
}

type node struct{ parent gesture.Node }

func (n *node) Parent() gesture.Node { return n.parent }

type region struct {
	node
	offset int
}

func (r *region) ScrollOffset() int { return r.offset }
func (r *region) ScrollBy(delta int) {
	r.offset = max(0, r.offset+delta)
}

type fixture struct {
	session   *Session
	engine    *fakeEngine
	scheduler *fakeScheduler
	bus       eventbus.EventBus
	reloads   int
	changes   int
	phases    []refresh.Phase
}

func pages(n int) []menu.Page {
	out := make([]menu.Page, n)
	for i := range out {
		out[i] = menu.Page{Title: "Page " + string(rune('A'+i))}
	}
	return out
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	f := &fixture{
		engine:    newFakeEngine(),
		scheduler: &fakeScheduler{},
		bus:       eventbus.New(nil),
	}
	f.bus.Subscribe(eventbus.EventReloadRequested, func(eventbus.DomainEvent) { f.reloads++ })
	f.bus.Subscribe(eventbus.EventPageChanged, func(eventbus.DomainEvent) { f.changes++ })

	s, err := New(pages(n), Options{
		Engine:       f.engine,
		Gesture:      gesture.Config{TopBand: 5, Threshold: 3, DeadZone: 0},
		RefreshDelay: refresh.DefaultDelay,
		Scheduler:    f.scheduler,
		Bus:          f.bus,
	})
	require.NoError(t, err)
	s.OnPullToRefreshPhaseChanged(func(_, next refresh.Phase) { f.phases = append(f.phases, next) })
	f.session = s
	return f
}

func TestNewFailures(t *testing.T) {
	_, err := New(nil, Options{Engine: newFakeEngine()})
	assert.ErrorIs(t, err, deck.ErrEmptyDeck)

	_, err = New(pages(2), Options{})
	assert.ErrorIs(t, err, pageturn.ErrEngineUnavailable)
}

func TestGoToDeltaStaysInBounds(t *testing.T) {
	f := newFixture(t, 6)
	rng := rand.New(rand.NewSource(7))

	for range 500 {
		f.session.GoToDelta(rng.Intn(21) - 10)
		cur := f.session.Current()
		require.GreaterOrEqual(t, cur, 0)
		require.LessOrEqual(t, cur, 5)
		require.Equal(t, cur, f.engine.CurrentPageIndex())
	}
}

func TestGoToIndexCurrentIsNoop(t *testing.T) {
	f := newFixture(t, 4)
	f.session.GoToIndex(2)
	require.Equal(t, []int{2}, f.engine.flips)

	notified := 0
	f.session.OnNavigationChanged(func(_, _ int) { notified++ })
	f.session.GoToIndex(2)
	f.session.GoToIndex(2)

	assert.Equal(t, []int{2}, f.engine.flips)
	assert.Zero(t, notified)
	assert.Equal(t, 1, f.changes)
}

func TestGoToIndexClamps(t *testing.T) {
	f := newFixture(t, 3)
	f.session.GoToIndex(99)
	assert.Equal(t, 2, f.session.Current())
	f.session.GoToIndex(-3)
	assert.Equal(t, 0, f.session.Current())
}

func TestEngineFlipUpdatesControls(t *testing.T) {
	f := newFixture(t, 4)
	var seen [][2]int
	f.session.OnNavigationChanged(func(old, next int) { seen = append(seen, [2]int{old, next}) })

	// a native swipe moves the engine on its own
	f.engine.settle(3)

	assert.Equal(t, [][2]int{{0, 3}}, seen)
	assert.Empty(t, f.engine.flips, "engine already there, no command")

	v := f.session.Controls()
	assert.Equal(t, "4 / 4", v.Indicator)
	assert.True(t, v.NextDisabled)
	assert.False(t, v.PrevDisabled)
	assert.Equal(t, 3, v.ActiveTab())
}

func TestExactlyOneActiveTab(t *testing.T) {
	f := newFixture(t, 5)
	for _, d := range []navigation.Direction{navigation.DirectionNext, navigation.DirectionLast, navigation.DirectionPrev, navigation.DirectionFirst} {
		f.session.Navigate(d)
		v := f.session.Controls()
		active := 0
		for _, tab := range v.Tabs {
			if tab.Active {
				active++
				assert.Equal(t, f.session.Current(), tab.Index)
			}
		}
		assert.Equal(t, 1, active)
	}
}

func TestPullPastThresholdReloadsOnce(t *testing.T) {
	f := newFixture(t, 3)

	f.session.PointerDown(gesture.PointerEvent{Y: 0})
	f.session.PointerMove(gesture.PointerEvent{Y: 1})
	f.session.PointerMove(gesture.PointerEvent{Y: 4})
	f.session.PointerUp(gesture.PointerEvent{Y: 4})

	assert.Equal(t, []refresh.Phase{refresh.PhasePulling, refresh.PhaseReady, refresh.PhaseLoading}, f.phases)
	require.Len(t, f.scheduler.pending, 1)
	assert.Equal(t, refresh.DefaultDelay, f.scheduler.pending[0].delay)
	assert.Zero(t, f.reloads)

	// input while loading is ignored
	f.session.PointerDown(gesture.PointerEvent{Y: 0})
	f.session.PointerMove(gesture.PointerEvent{Y: 6})
	f.session.PointerUp(gesture.PointerEvent{Y: 6})
	assert.Equal(t, refresh.PhaseLoading, f.session.RefreshPhase())
	assert.Len(t, f.scheduler.pending, 1)

	f.scheduler.pending[0].fn()
	assert.Equal(t, 1, f.reloads)
	assert.Equal(t, "Refreshing…", f.session.Banner().Text)
}

func TestReleaseBeforeThresholdHides(t *testing.T) {
	f := newFixture(t, 3)

	f.session.PointerDown(gesture.PointerEvent{Y: 1})
	f.session.PointerMove(gesture.PointerEvent{Y: 3})
	assert.Equal(t, "Pull down to refresh", f.session.Banner().Text)
	f.session.PointerUp(gesture.PointerEvent{Y: 3})

	assert.Equal(t, []refresh.Phase{refresh.PhasePulling, refresh.PhaseHidden}, f.phases)
	assert.Empty(t, f.scheduler.pending)
}

func TestPullIsNotForwardedToEngine(t *testing.T) {
	f := newFixture(t, 3)

	f.session.PointerDown(gesture.PointerEvent{X: 10, Y: 0})
	f.session.PointerMove(gesture.PointerEvent{X: 10, Y: 4})
	f.session.PointerUp(gesture.PointerEvent{X: 10, Y: 4})

	assert.Equal(t, []pageturn.PointerKind{pageturn.PointerDown, pageturn.PointerCancel}, f.engine.inputs)
}

func TestScrolledRegionNeverRefreshes(t *testing.T) {
	f := newFixture(t, 3)
	r := &region{offset: 6}
	target := &node{parent: r}

	f.session.PointerDown(gesture.PointerEvent{Y: 0, Target: target})
	for y := 1; y <= 8; y++ {
		v := f.session.PointerMove(gesture.PointerEvent{Y: y, Target: target})
		assert.Equal(t, gesture.ClassContentScroll, v.Class)
	}
	f.session.PointerUp(gesture.PointerEvent{Y: 8, Target: target})

	assert.Empty(t, f.phases)
	assert.Equal(t, refresh.PhaseHidden, f.session.RefreshPhase())
	assert.Zero(t, r.offset, "dragging down scrolls the content back up")
	assert.Empty(t, f.engine.inputs, "content scroll never reaches the engine")
}

func TestSwipeOutsideTopBandIsForwarded(t *testing.T) {
	f := newFixture(t, 3)

	f.session.PointerDown(gesture.PointerEvent{X: 30, Y: 10})
	f.session.PointerMove(gesture.PointerEvent{X: 20, Y: 10})
	f.session.PointerUp(gesture.PointerEvent{X: 20, Y: 10})

	assert.Equal(t, []pageturn.PointerKind{pageturn.PointerDown, pageturn.PointerMove, pageturn.PointerUp}, f.engine.inputs)
	assert.Empty(t, f.phases)
}

func TestPointerCancelResets(t *testing.T) {
	f := newFixture(t, 3)

	f.session.PointerDown(gesture.PointerEvent{Y: 0})
	f.session.PointerMove(gesture.PointerEvent{Y: 2})
	v := f.session.PointerCancel()

	assert.True(t, v.Ended)
	assert.Equal(t, refresh.PhaseHidden, f.session.RefreshPhase())
	assert.Equal(t, pageturn.PointerCancel, f.engine.inputs[len(f.engine.inputs)-1])
}

func TestWheelScrollsRegion(t *testing.T) {
	f := newFixture(t, 2)
	r := &region{}

	v := f.session.Wheel(gesture.WheelEvent{Delta: 3, Target: &node{parent: r}})
	assert.Equal(t, gesture.ClassContentScroll, v.Class)
	assert.Equal(t, 3, r.offset)

	v = f.session.Wheel(gesture.WheelEvent{Delta: 3})
	assert.True(t, v.PreventDefault)
	assert.Empty(t, f.engine.inputs)
}

func TestCloseDetachesListeners(t *testing.T) {
	f := newFixture(t, 3)
	f.session.Close()

	f.engine.settle(2)
	assert.Equal(t, 0, f.session.Current())
}

type textPage struct{ text string }

func (p *textPage) SetSize(int, int) {}
func (p *textPage) View() string     { return p.text }

func TestWithFlipbookEngine(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	engine := flipbook.New(flipbook.Options{
		FlippingTime: 100 * time.Millisecond,
		Now:          func() time.Time { return now },
	})
	render := func(i int, p menu.Page) deck.Element { return &textPage{text: p.Title} }

	s, err := New(pages(3), Options{Engine: engine, Render: render, Gesture: gesture.DefaultConfig()})
	require.NoError(t, err)
	s.Resize(20, 2)
	assert.True(t, strings.HasPrefix(s.View(), "Page A"))

	s.GoToDelta(1)
	assert.Equal(t, 1, s.Current())
	assert.True(t, s.Tick(now.Add(50*time.Millisecond)))
	assert.False(t, s.Tick(now.Add(100*time.Millisecond)))
	assert.Equal(t, 1, s.Current())
	assert.True(t, strings.HasPrefix(s.View(), "Page B"))
}

func TestSwipeBackDuringFlipKeepsStateAndEngineTogether(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	engine := flipbook.New(flipbook.Options{
		FlippingTime: 100 * time.Millisecond,
		Now:          func() time.Time { return now },
	})
	render := func(i int, p menu.Page) deck.Element { return &textPage{text: p.Title} }

	s, err := New(pages(3), Options{Engine: engine, Render: render, Gesture: gesture.DefaultConfig()})
	require.NoError(t, err)
	s.Resize(40, 20)

	s.GoToDelta(1)
	require.Equal(t, 1, s.Current())

	// swipe right while the flip to page 1 is running
	s.PointerDown(gesture.PointerEvent{X: 10, Y: 10})
	s.PointerMove(gesture.PointerEvent{X: 15, Y: 10})
	s.PointerUp(gesture.PointerEvent{X: 15, Y: 10})

	for i := 1; s.Tick(now.Add(time.Duration(i) * 10 * time.Millisecond)); i++ {
		require.Less(t, i, 100)
	}
	assert.Equal(t, 0, engine.CurrentPageIndex())
	assert.Equal(t, engine.CurrentPageIndex(), s.Current())
	assert.Equal(t, "1 / 3", s.Controls().Indicator)
}

func TestOrientationChangeIsPublished(t *testing.T) {
	engine := flipbook.New(flipbook.Options{LandscapeMinWidth: 50})
	render := func(i int, p menu.Page) deck.Element { return &textPage{text: p.Title} }
	bus := eventbus.New(nil)
	var got []string
	bus.Subscribe(eventbus.EventOrientationChanged, func(e eventbus.DomainEvent) {
		got = append(got, e.(eventbus.OrientationChangedEvent).Orientation)
	})

	s, err := New(pages(3), Options{Engine: engine, Render: render, Gesture: gesture.DefaultConfig(), Bus: bus})
	require.NoError(t, err)
	s.Resize(60, 10)
	s.Resize(70, 10)
	s.Resize(40, 10)
	assert.Equal(t, []string{"landscape", "portrait"}, got)
}
