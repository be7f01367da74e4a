package gesture

// Node is anything a pointer can land on. Parent returns nil at the root.
type Node interface {
	Parent() Node
}

// ScrollRegion is a node whose content scrolls independently of the page
type ScrollRegion interface {
	Node
	ScrollOffset() int
}

// FindScrollRegion walks up from n to the nearest scroll region
func FindScrollRegion(n Node) ScrollRegion {
	for n != nil {
		if r, ok := n.(ScrollRegion); ok {
			return r
		}
		n = n.Parent()
	}
	return nil
}

// PointerEvent is one step of a pointer sequence. ID 0 means the host does
// not distinguish pointers.
type PointerEvent struct {
	ID     int64
	X, Y   int
	Target Node
}

// WheelEvent is a wheel or trackpad scroll
type WheelEvent struct {
	X, Y   int
	Delta  int // positive scrolls content down
	Target Node
}

// Phase of a gesture session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTracking
	PhaseCommitted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTracking:
		return "tracking"
	case PhaseCommitted:
		return "committed"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Class is what the arbiter decided an event belongs to
type Class int

const (
	ClassIgnored Class = iota
	ClassContentScroll
	ClassPullToRefresh
)

func (c Class) String() string {
	switch c {
	case ClassIgnored:
		return "ignored"
	case ClassContentScroll:
		return "content-scroll"
	case ClassPullToRefresh:
		return "pull-to-refresh"
	}
	return "unknown"
}

// Classification is the arbiter's view of the active session after an event
type Classification struct {
	Class        Class
	Phase        Phase
	Displacement int
}

// Verdict tells the host what to do with one event
type Verdict struct {
	Classification

	// PreventDefault suppresses platform scrolling/flip behavior for the event
	PreventDefault bool
	// ForwardToEngine lets the page-turn engine handle the event natively
	ForwardToEngine bool
	// Region is the scroll region under the session origin, if any
	Region ScrollRegion
	// Step is the vertical movement since the previous event of the sequence
	Step int
	// Ended is set on the terminal event of a sequence
	Ended bool
}

// Config holds the arbitration constants, in the same units as event coordinates
type Config struct {
	TopBand   int // pulls must start above this row
	Threshold int // downward displacement that arms the refresh
	DeadZone  int // displacement at or below this is negligible
}

// DefaultConfig is tuned for terminal cells
func DefaultConfig() Config {
	return Config{TopBand: 5, Threshold: 3, DeadZone: 0}
}
