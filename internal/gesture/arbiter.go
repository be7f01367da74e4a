// Package gesture classifies pointer sequences into content scrolls,
// pull-to-refresh candidates or events the page-turn engine should handle.
package gesture

import "log/slog"

// Session is the state of one pointer sequence
type Session struct {
	ID            int64
	PointerID     int64
	OriginY       int
	Phase         Phase
	Region        ScrollRegion
	ContentScroll bool // decided once at tracking entry
	Eligible      bool // may become a pull-to-refresh

	lastY int
	last  Classification
}

// Arbiter runs the per-sequence state machine. At most one session exists.
type Arbiter struct {
	cfg     Config
	logger  *slog.Logger
	session *Session
	nextID  int64
}

// NewArbiter creates an arbiter
func NewArbiter(cfg Config, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{cfg: cfg, logger: logger}
}

// Session returns the active session or nil
func (a *Arbiter) Session() *Session {
	return a.session
}

// Active reports whether a sequence is in progress
func (a *Arbiter) Active() bool {
	return a.session != nil
}

// Down starts a new session, discarding any session that never saw its up
func (a *Arbiter) Down(ev PointerEvent) Verdict {
	if a.session != nil {
		a.logger.Debug("gesture session discarded by new down", "session", a.session.ID)
	}
	a.nextID++
	s := &Session{
		ID:        a.nextID,
		PointerID: ev.ID,
		OriginY:   ev.Y,
		Phase:     PhaseTracking,
		Region:    FindScrollRegion(ev.Target),
		lastY:     ev.Y,
	}
	if s.Region != nil && s.Region.ScrollOffset() != 0 {
		s.ContentScroll = true
	} else {
		s.Eligible = ev.Y < a.cfg.TopBand
	}
	a.session = s

	a.logger.Debug("gesture session started",
		"session", s.ID, "origin_y", s.OriginY,
		"content_scroll", s.ContentScroll, "eligible", s.Eligible)

	s.last = Classification{Class: a.baseClass(s), Phase: s.Phase}
	return a.verdict(s, 0)
}

// Move classifies a move event of the active sequence
func (a *Arbiter) Move(ev PointerEvent) Verdict {
	s := a.session
	if s == nil || !a.sameSequence(s, ev) {
		return Verdict{ForwardToEngine: true}
	}
	step := ev.Y - s.lastY
	s.lastY = ev.Y
	dy := ev.Y - s.OriginY

	if s.Eligible && !s.ContentScroll && s.Phase != PhaseCancelled {
		switch {
		case dy < -a.cfg.DeadZone:
			s.Phase = PhaseCancelled
			a.logger.Debug("gesture session cancelled by upward move", "session", s.ID)
		case dy >= a.cfg.Threshold:
			s.Phase = PhaseCommitted
		default:
			s.Phase = PhaseTracking
		}
	}

	c := Classification{Class: a.baseClass(s), Phase: s.Phase, Displacement: dy}
	if s.Eligible && !s.ContentScroll && s.Phase != PhaseCancelled && dy > a.cfg.DeadZone {
		c.Class = ClassPullToRefresh
	}
	s.last = c
	return a.verdict(s, step)
}

// Up ends the active sequence
func (a *Arbiter) Up(ev PointerEvent) Verdict {
	s := a.session
	if s == nil || !a.sameSequence(s, ev) {
		return Verdict{ForwardToEngine: true, Ended: true}
	}
	step := ev.Y - s.lastY
	return a.end(s, step)
}

// Cancel aborts the active sequence
func (a *Arbiter) Cancel() Verdict {
	s := a.session
	if s == nil {
		return Verdict{Ended: true}
	}
	s.Phase = PhaseCancelled
	return a.end(s, 0)
}

// Wheel classifies a wheel event. Inside a region the region scrolls; outside
// the body scroll is suppressed.
func (a *Arbiter) Wheel(ev WheelEvent) Verdict {
	if region := FindScrollRegion(ev.Target); region != nil {
		return Verdict{
			Classification: Classification{Class: ClassContentScroll},
			Region:         region,
			Step:           ev.Delta,
		}
	}
	return Verdict{PreventDefault: true, ForwardToEngine: true}
}

func (a *Arbiter) end(s *Session, step int) Verdict {
	if s.Phase == PhaseTracking {
		s.Phase = PhaseCancelled
	}
	s.last.Phase = s.Phase
	v := a.verdict(s, step)
	v.Ended = true
	a.session = nil
	a.logger.Debug("gesture session ended", "session", s.ID, "phase", s.Phase.String(), "class", v.Class.String())
	return v
}

func (a *Arbiter) verdict(s *Session, step int) Verdict {
	v := Verdict{Classification: s.last, Region: s.Region, Step: step}
	switch v.Class {
	case ClassContentScroll, ClassPullToRefresh:
		v.PreventDefault = true
	default:
		v.ForwardToEngine = true
	}
	return v
}

func (a *Arbiter) baseClass(s *Session) Class {
	if s.ContentScroll {
		return ClassContentScroll
	}
	return ClassIgnored
}

func (a *Arbiter) sameSequence(s *Session, ev PointerEvent) bool {
	return s.PointerID == 0 || ev.ID == 0 || s.PointerID == ev.ID
}
