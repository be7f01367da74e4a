package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"menubook/internal/book"
	"menubook/internal/config"
	"menubook/internal/deck"
	"menubook/internal/eventbus"
	"menubook/internal/flipbook"
	"menubook/internal/gesture"
	"menubook/internal/menu"
	"menubook/internal/navigation"
	"menubook/internal/pageturn"
	"menubook/internal/refresh"
	"menubook/internal/syncview"
)

const (
	// ReadyMarker is appended to the status line for the PTY test harness
	ReadyMarker = "__READY__"

	wheelStep   = 3
	loadTimeout = 20 * time.Second
)

// Model represents the UI state
type Model struct {
	cfg      *config.Config
	bus      eventbus.EventBus
	logger   *slog.Logger
	provider menu.Provider

	styles   *Styles
	keys     KeyMap
	jumpKeys JumpKeyMap
	help     help.Model
	helpText *HelpRenderer
	pager    *PagerOps

	width  int
	height int

	session    *book.Session
	engine     *flipbook.Book
	restaurant menu.Restaurant
	loadErr    error
	loading    bool

	pressed     bool // a left button press is being tracked
	animating   bool // a frame tick is in flight
	inPagerMode bool // tracks if we're currently in pager mode
	e2e         bool

	jump        textinput.Model
	jumping     bool
	jumpMatches []syncview.Tab

	status      string
	statusIsErr bool

	// commands queued by synchronous callbacks during the current update
	pending []tea.Cmd
	// bus subscriptions of the model and of the current session
	unsubs        []func()
	sessionUnsubs []func()

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, bus eventbus.EventBus, provider menu.Provider, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "category"
	ti.CharLimit = 64

	m := &Model{
		cfg:      cfg,
		bus:      bus,
		logger:   logger,
		provider: provider,
		styles:   NewStyles(),
		keys:     DefaultKeyMap(),
		jumpKeys: DefaultJumpKeyMap(),
		help:     help.New(),
		helpText: NewHelpRenderer(),
		jump:     ti,
		e2e:      os.Getenv("MENUBOOK_E2E_TEST") == "1",
	}

	m.unsubs = append(m.unsubs,
		bus.Subscribe(eventbus.EventReloadRequested, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ReloadRequestedEvent); ok {
				m.logger.Info("reloading menu", "reason", ev.Reason)
			}
			m.requestLoad()
		}),
		bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ErrorEvent); ok {
				m.pending = append(m.pending, m.setStatus(fmt.Sprintf("%s: %v", ev.Message, ev.Err), true))
			}
		}),
	)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init starts loading the menu
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadMenu()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.jump.Width = max(10, msg.Width/3)
		m.resizeBook()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case menuLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.build(msg.menu)
		}

	case frameMsg:
		m.animating = false
		if m.session != nil && m.session.Tick(time.Time(msg)) {
			m.ensureFrames()
		}

	case scheduledMsg:
		if msg.session == m.session {
			msg.fn()
		}

	case pagerMsg:
		if msg.err != nil {
			m.bus.Publish(eventbus.ErrorEvent{Message: "Pager failed", Err: msg.err})
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	case clearStatusMsg:
		m.status = ""
		m.statusIsErr = false

	default:
		if m.jumping {
			m.jump, cmd = m.jump.Update(msg)
		}
	}

	return m, m.flush(cmd)
}

// flush batches cmd with everything queued during the update
func (m *Model) flush(cmd tea.Cmd) tea.Cmd {
	if len(m.pending) == 0 {
		return cmd
	}
	cmds := append(m.pending, cmd)
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.jumping {
		return m.handleJumpKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m.showPager(m.helpText.Render(m.keys))
	case key.Matches(msg, m.keys.Reload):
		m.cancelPointer()
		m.bus.Publish(eventbus.ReloadRequestedEvent{Reason: "key"})
		return nil
	}

	if m.session == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		m.session.Navigate(navigation.DirectionPrev)
	case key.Matches(msg, m.keys.Next):
		m.session.Navigate(navigation.DirectionNext)
	case key.Matches(msg, m.keys.First):
		m.session.Navigate(navigation.DirectionFirst)
	case key.Matches(msg, m.keys.Last):
		m.session.Navigate(navigation.DirectionLast)
	case key.Matches(msg, m.keys.Tab):
		n := int(msg.String()[0] - '1')
		if tabs := m.session.Tabs(); n < len(tabs) {
			m.session.GoToIndex(tabs[n].Index)
		}
	case key.Matches(msg, m.keys.Jump):
		return m.openJump()
	case key.Matches(msg, m.keys.ScrollUp):
		m.scrollCurrent(-1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.scrollCurrent(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollCurrent(-m.currentBodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollCurrent(m.currentBodyHeight())
	case key.Matches(msg, m.keys.Pager):
		if p, ok := m.session.CurrentPage().Element.(*pageElement); ok {
			return m.showPager(p.PlainText())
		}
	}
	return nil
}

func (m *Model) openJump() tea.Cmd {
	m.cancelPointer()
	m.jumping = true
	m.jump.SetValue("")
	m.updateJumpMatches()
	return m.jump.Focus()
}

func (m *Model) closeJump() {
	m.jumping = false
	m.jump.Blur()
	m.jumpMatches = nil
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.jumpKeys.Cancel):
		m.closeJump()
		return nil
	case key.Matches(msg, m.jumpKeys.Accept):
		if len(m.jumpMatches) > 0 && m.session != nil {
			m.session.GoToIndex(m.jumpMatches[0].Index)
		}
		m.closeJump()
		return nil
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	m.updateJumpMatches()
	return cmd
}

// updateJumpMatches ranks the category tabs against the jump query
func (m *Model) updateJumpMatches() {
	if m.session == nil {
		m.jumpMatches = nil
		return
	}
	tabs := m.session.Tabs()
	query := strings.TrimSpace(m.jump.Value())
	if query == "" {
		m.jumpMatches = tabs
		return
	}

	lowerLabels := make([]string, len(tabs))
	for i, t := range tabs {
		lowerLabels[i] = strings.ToLower(t.Label)
	}
	matches := fuzzy.Find(strings.ToLower(query), lowerLabels)

	m.jumpMatches = make([]syncview.Tab, len(matches))
	for i, match := range matches {
		m.jumpMatches[i] = tabs[match.Index]
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.session == nil || m.jumping {
		return
	}
	ev := tea.MouseEvent(msg)

	if ev.IsWheel() {
		var delta int
		switch ev.Button {
		case tea.MouseButtonWheelDown:
			delta = wheelStep
		case tea.MouseButtonWheelUp:
			delta = -wheelStep
		default:
			return
		}
		m.session.Wheel(gesture.WheelEvent{X: ev.X, Y: ev.Y - chromeRows, Delta: delta, Target: m.nodeAt(ev.X, ev.Y)})
		return
	}

	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return
		}
		if m.click(ev.X, ev.Y) {
			return
		}
		m.pressed = true
		m.session.PointerDown(m.pointer(ev))
	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		m.session.PointerMove(m.pointer(ev))
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.session.PointerUp(m.pointer(ev))
	}
	m.ensureFrames()
}

// click handles presses on the prev/next buttons and the tabs. It reports
// whether the press hit a control.
func (m *Model) click(x, y int) bool {
	v := m.session.Controls()
	switch y {
	case rowControls:
		c := renderControls(v, m.width, m.styles)
		switch {
		case c.prev.contains(x):
			m.session.Navigate(navigation.DirectionPrev)
			return true
		case c.next.contains(x):
			m.session.Navigate(navigation.DirectionNext)
			return true
		}
	case rowTabs:
		_, spans := renderTabs(v, m.width, m.styles)
		for _, s := range spans {
			if s.contains(x) {
				m.session.GoToIndex(s.index)
				return true
			}
		}
	}
	return false
}

// pointer converts a mouse event to book coordinates: rows above the book
// are negative.
func (m *Model) pointer(ev tea.MouseEvent) gesture.PointerEvent {
	return gesture.PointerEvent{X: ev.X, Y: ev.Y - chromeRows, Target: m.nodeAt(ev.X, ev.Y)}
}

// nodeAt hit-tests the current page at screen coordinates
func (m *Model) nodeAt(x, y int) gesture.Node {
	row := y - chromeRows
	if row < 0 || row >= m.bookHeight() {
		return nil
	}
	if m.engine != nil && m.engine.Orientation() == pageturn.OrientationLandscape && x <= (m.width-1)/2 {
		// facing page and gutter
		return nil
	}
	if p, ok := m.session.CurrentPage().Element.(*pageElement); ok {
		return p.NodeAt(row)
	}
	return nil
}

func (m *Model) scrollCurrent(delta int) {
	if p, ok := m.session.CurrentPage().Element.(*pageElement); ok {
		p.ScrollBy(delta)
	}
}

func (m *Model) currentBodyHeight() int {
	if p, ok := m.session.CurrentPage().Element.(*pageElement); ok {
		return max(1, p.BodyHeight())
	}
	return 1
}

func (m *Model) bookHeight() int {
	return max(1, m.height-chromeRows-1)
}

func (m *Model) resizeBook() {
	if m.session != nil && m.width > 0 {
		m.session.Resize(m.width, m.bookHeight())
	}
}

// loadMenu returns a command that loads the menu document
func (m *Model) loadMenu() tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		doc, err := provider.Load(ctx)
		return menuLoadedMsg{menu: doc, err: err}
	}
}

func (m *Model) requestLoad() {
	if m.loading {
		return
	}
	m.loading = true
	m.pending = append(m.pending, m.loadMenu())
}

// schedule implements refresh.Scheduler on the update loop
func (m *Model) schedule(d time.Duration, fn func()) {
	session := m.session
	m.pending = append(m.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return scheduledMsg{session: session, fn: fn}
	}))
}

// ensureFrames starts the animation tick if none is in flight
func (m *Model) ensureFrames() {
	if m.animating || m.session == nil {
		return
	}
	m.animating = true
	m.pending = append(m.pending, tea.Tick(m.cfg.Engine.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	}))
}

// build replaces the session with one over doc
func (m *Model) build(doc *menu.Menu) {
	m.closeSession()

	renderer := menu.NewRenderer(doc.Restaurant, menu.DefaultStyles())
	total := len(doc.Pages)
	engine := flipbook.New(flipbook.Options{
		FlippingTime:      m.cfg.Engine.FlippingTime,
		SwipeDistance:     m.cfg.Gesture.SwipeDistance,
		LandscapeMinWidth: m.cfg.Engine.LandscapeMinWidth,
	})

	s, err := book.New(doc.Pages, book.Options{
		Engine: engine,
		Render: func(index int, content menu.Page) deck.Element {
			return newPageElement(index, total, content, renderer)
		},
		Gesture: gesture.Config{
			TopBand:   m.cfg.Gesture.TopBand,
			Threshold: m.cfg.Gesture.Threshold,
			DeadZone:  m.cfg.Gesture.DeadZone,
		},
		RefreshDelay: m.cfg.Refresh.Delay,
		Scheduler:    refresh.SchedulerFunc(m.schedule),
		Bus:          m.bus,
		Logger:       m.logger,
	})
	if err != nil {
		m.fail(err)
		return
	}

	m.session = s
	m.engine = engine
	m.restaurant = doc.Restaurant
	m.loadErr = nil
	m.sessionUnsubs = append(m.sessionUnsubs, s.OnNavigationChanged(func(_, _ int) { m.ensureFrames() }))
	m.resizeBook()

	m.bus.Publish(eventbus.MenuLoadedEvent{Source: m.cfg.Menu.Source, Pages: s.Count()})
}

// fail replaces the book with the error page
func (m *Model) fail(err error) {
	m.closeSession()
	m.loadErr = err
	m.bus.Publish(eventbus.MenuLoadFailedEvent{Source: m.cfg.Menu.Source, Err: err})
}

// Close detaches the model from the bus and releases the book
func (m *Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.closeSession()
}

// cancelPointer ends a tracked press that will not see its release
func (m *Model) cancelPointer() {
	if m.pressed && m.session != nil {
		m.session.PointerCancel()
	}
	m.pressed = false
}

func (m *Model) closeSession() {
	m.cancelPointer()
	for _, unsub := range m.sessionUnsubs {
		unsub()
	}
	m.sessionUnsubs = nil
	if m.session != nil {
		m.session.Close()
	}
	m.session = nil
	m.engine = nil
	m.closeJump()
}

// showPager returns a command that shows content in the ov pager
func (m *Model) showPager(content string) tea.Cmd {
	m.cancelPointer()
	if m.program == nil || m.pager == nil {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusIsErr = isErr
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.session == nil {
		if m.loadErr != nil {
			return m.errorView()
		}
		return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.styles.Dim.Render("Loading menu...")) +
			"\n" + m.statusLine()
	}

	v := m.session.Controls()
	tabs, _ := renderTabs(v, m.width, m.styles)
	rows := []string{
		m.brandLine(),
		xansi.Truncate(renderBanner(m.session.Banner(), syncview.Hint(m.session.Count()), m.styles), m.width, "…"),
		renderControls(v, m.width, m.styles).line,
		tabs,
		m.session.View(),
		m.statusLine(),
	}
	return strings.Join(rows, "\n")
}

func (m *Model) brandLine() string {
	name := m.restaurant.Name
	if name == "" {
		name = "Menu"
	}
	line := m.styles.Brand.Render(name)
	if m.restaurant.Tagline != "" {
		line += "  " + m.styles.Tagline.Render(m.restaurant.Tagline)
	}
	return xansi.Truncate(line, m.width, "…")
}

func (m *Model) statusLine() string {
	var line string
	switch {
	case m.jumping:
		labels := make([]string, 0, 3)
		for i, t := range m.jumpMatches {
			if i == 3 {
				break
			}
			labels = append(labels, t.Label)
		}
		matches := m.styles.JumpMatch.Render(strings.Join(labels, " · "))
		if len(m.jumpMatches) == 0 {
			matches = m.styles.Dim.Render("no match")
		}
		line = m.styles.Jump.Render(m.jump.View()) + "  " + matches
	case m.status != "":
		style := m.styles.Status
		if m.statusIsErr {
			style = m.styles.StatusError
		}
		line = style.Render(m.status)
	default:
		line = m.help.View(m.keys)
	}
	if m.e2e {
		line += " " + ReadyMarker
	}
	return line
}

func (m *Model) errorView() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ErrorTitle.Render("Error"),
		"",
		m.loadErr.Error(),
		"",
		m.styles.Dim.Render("Check the menu source: "+m.cfg.Menu.Source),
		m.styles.Dim.Render("Press r to retry, q to quit."),
	)
	box := m.styles.ErrorBox.Width(min(m.width-2, 72)).Render(body)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box) + "\n" + m.statusLine()
}
