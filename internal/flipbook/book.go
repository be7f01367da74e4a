// Package flipbook is the bundled terminal page-turn engine. It keeps its own
// page cursor, animates flips on host frames and turns pages on horizontal
// swipes.
package flipbook

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"menubook/internal/deck"
	"menubook/internal/pageturn"
)

// ErrNoPages is returned by Load for an empty page list
var ErrNoPages = errors.New("no pages to load")

// Options tune the engine
type Options struct {
	// FlippingTime is the duration of one flip; zero flips instantly
	FlippingTime time.Duration
	// SwipeDistance is the horizontal drag, in cells, that turns a page
	SwipeDistance int
	// LandscapeMinWidth is the width from which two pages are shown side by side
	LandscapeMinWidth int
	// Now is the clock used to stamp animations
	Now func() time.Time
}

// hardPage is implemented by elements that should flip without a curl
type hardPage interface {
	Hard() bool
}

type animation struct {
	from, to   int
	corner     pageturn.Corner
	start      time.Time
	progress   float64
	retargeted bool // listeners may have been told about another target
}

type swipe struct {
	x, y  int
	fired bool
}

// Book implements pageturn.Engine
type Book struct {
	opts     Options
	pages    []deck.Element
	current  int
	anim     *animation
	swipe    *swipe
	handlers map[pageturn.EventName][]func(pageturn.Event)

	width, height int
	orientation   pageturn.Orientation

	edgeStyle  lipgloss.Style
	faintStyle lipgloss.Style
}

// New creates an empty book
func New(opts Options) *Book {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SwipeDistance <= 0 {
		opts.SwipeDistance = 1
	}
	return &Book{
		opts:        opts,
		handlers:    make(map[pageturn.EventName][]func(pageturn.Event)),
		orientation: pageturn.OrientationPortrait,
		edgeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		faintStyle:  lipgloss.NewStyle().Faint(true),
	}
}

// Load replaces the pages and resets the cursor to the first one
func (b *Book) Load(pages []deck.Element) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	for i, p := range pages {
		if p == nil {
			return fmt.Errorf("page %d has no element", i)
		}
	}
	b.pages = pages
	b.current = 0
	b.anim = nil
	b.swipe = nil
	b.layout()
	return nil
}

// On registers an event handler
func (b *Book) On(name pageturn.EventName, handler func(pageturn.Event)) {
	b.handlers[name] = append(b.handlers[name], handler)
}

// PageCount returns the number of loaded pages
func (b *Book) PageCount() int {
	return len(b.pages)
}

// CurrentPageIndex reports the page the book rests on, or the page it is
// turning to while a flip is running.
func (b *Book) CurrentPageIndex() int {
	if b.anim != nil {
		return b.anim.to
	}
	return b.current
}

// Orientation returns the current layout
func (b *Book) Orientation() pageturn.Orientation {
	return b.orientation
}

// Animating reports whether a flip is in progress
func (b *Book) Animating() bool {
	return b.anim != nil
}

// Flip starts a flip to index, or retargets the running one
func (b *Book) Flip(index int, corner pageturn.Corner) {
	if len(b.pages) == 0 {
		return
	}
	index = max(0, min(index, len(b.pages)-1))

	if b.anim != nil {
		if index != b.anim.to {
			b.anim.retargeted = true
		}
		b.anim.to = index
		b.anim.corner = corner
		return
	}
	if index == b.current {
		return
	}
	if b.opts.FlippingTime <= 0 {
		b.settle(index)
		return
	}
	b.anim = &animation{from: b.current, to: index, corner: corner, start: b.opts.Now()}
}

// Advance moves the running flip to now. It returns true while more frames
// are needed.
func (b *Book) Advance(now time.Time) bool {
	if b.anim == nil {
		return false
	}
	elapsed := now.Sub(b.anim.start)
	if elapsed >= b.opts.FlippingTime {
		to, retargeted := b.anim.to, b.anim.retargeted
		b.anim = nil
		if retargeted && to == b.current {
			// back where it started: still report where the book rests
			b.emit(pageturn.Event{Name: pageturn.EventFlip, Index: to})
			return false
		}
		b.settle(to)
		return false
	}
	b.anim.progress = float64(elapsed) / float64(b.opts.FlippingTime)
	return true
}

func (b *Book) settle(index int) {
	if index == b.current {
		return
	}
	b.current = index
	b.emit(pageturn.Event{Name: pageturn.EventFlip, Index: index})
}

func (b *Book) emit(e pageturn.Event) {
	handlers := b.handlers[e.Name]
	for _, h := range handlers {
		h(e)
	}
}

// Resize lays the pages out for the new size
func (b *Book) Resize(width, height int) {
	b.width, b.height = width, height

	orientation := pageturn.OrientationPortrait
	if b.opts.LandscapeMinWidth > 0 && width >= b.opts.LandscapeMinWidth {
		orientation = pageturn.OrientationLandscape
	}
	changed := orientation != b.orientation
	b.orientation = orientation
	b.layout()
	if changed {
		b.emit(pageturn.Event{Name: pageturn.EventChangeOrientation, Orientation: orientation})
	}
}

func (b *Book) layout() {
	w, _ := b.paneWidths()
	for _, p := range b.pages {
		p.SetSize(w, b.height)
	}
}

// paneWidths returns the width of the page pane and of the facing pane in
// landscape (zero in portrait).
func (b *Book) paneWidths() (int, int) {
	if b.orientation != pageturn.OrientationLandscape {
		return b.width, 0
	}
	left := (b.width - 1) / 2
	return b.width - 1 - left, left
}

// HandlePointer turns pages on horizontal drags
func (b *Book) HandlePointer(in pageturn.PointerInput) {
	switch in.Kind {
	case pageturn.PointerDown:
		b.swipe = &swipe{x: in.X, y: in.Y}
	case pageturn.PointerMove:
		if b.swipe == nil || b.swipe.fired {
			return
		}
		dx, dy := in.X-b.swipe.x, in.Y-b.swipe.y
		if abs(dx) < b.opts.SwipeDistance || abs(dx) <= abs(dy) {
			return
		}
		b.swipe.fired = true
		corner := pageturn.CornerTop
		if b.height > 0 && b.swipe.y >= b.height/2 {
			corner = pageturn.CornerBottom
		}
		if dx < 0 {
			b.Flip(b.CurrentPageIndex()+1, corner)
		} else {
			b.Flip(b.CurrentPageIndex()-1, corner)
		}
	case pageturn.PointerUp, pageturn.PointerCancel:
		b.swipe = nil
	}
}

// View draws the current page, the running flip and, in landscape, the
// facing page.
func (b *Book) View() string {
	if len(b.pages) == 0 || b.width <= 0 || b.height <= 0 {
		return ""
	}
	pageW, facingW := b.paneWidths()

	var pane []string
	if b.anim == nil {
		pane = b.lines(b.current, pageW)
	} else {
		pane = b.turning(pageW)
	}
	if facingW == 0 {
		return strings.Join(pane, "\n")
	}

	facingIndex := b.current - 1
	if b.anim != nil && b.anim.progress >= 0.5 {
		facingIndex = b.anim.to - 1
	}
	facing := blank(facingW, b.height)
	if facingIndex >= 0 {
		facing = b.lines(facingIndex, facingW)
		for i, l := range facing {
			facing[i] = b.faintStyle.Render(l)
		}
	}
	gutter := b.edgeStyle.Render("│")
	out := make([]string, b.height)
	for i := range out {
		out[i] = facing[i] + gutter + pane[i]
	}
	return strings.Join(out, "\n")
}

// turning composes the outgoing and incoming pages split along the curl
// edge. Forward flips sweep the edge right to left, backward flips left to
// right.
func (b *Book) turning(w int) []string {
	a := b.anim
	from, to := b.lines(a.from, w), b.lines(a.to, w)
	forward := a.to > a.from

	if h, ok := b.pages[a.from].(hardPage); ok && h.Hard() {
		if a.progress < 0.5 {
			return from
		}
		return to
	}

	out := make([]string, b.height)
	lean := int(float64(w) / 2 * a.progress * (1 - a.progress))
	for row := range out {
		rowLean := lean * row / max(1, b.height)
		if a.corner == pageturn.CornerBottom {
			rowLean = lean * (b.height - 1 - row) / max(1, b.height)
		}
		var x int
		left, right := to[row], from[row]
		if forward {
			x = int(float64(w)*(1-a.progress)) + rowLean
			left, right = from[row], to[row]
		} else {
			x = int(float64(w)*a.progress) - rowLean
		}
		x = max(0, min(x, w-1))
		out[row] = xansi.Cut(left, 0, x) + b.edgeStyle.Render("▌") + xansi.Cut(right, x+1, w)
	}
	return out
}

// lines renders page index as exactly height lines of width w
func (b *Book) lines(index, w int) []string {
	raw := strings.Split(b.pages[index].View(), "\n")
	out := make([]string, b.height)
	for i := range out {
		line := ""
		if i < len(raw) {
			line = xansi.Truncate(raw[i], w, "")
		}
		if pad := w - xansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return out
}

func blank(w, h int) []string {
	out := make([]string, h)
	for i := range out {
		out[i] = strings.Repeat(" ", w)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
