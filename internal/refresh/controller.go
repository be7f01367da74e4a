// Package refresh drives the pull-to-refresh indicator from gesture
// classifications and fires the reload action.
package refresh

import (
	"log/slog"
	"time"

	"menubook/internal/gesture"
)

// DefaultDelay leaves time for the loading state to render before reloading
const DefaultDelay = 120 * time.Millisecond

// Phase of the pull-to-refresh indicator
type Phase int

const (
	PhaseHidden Phase = iota
	PhasePulling
	PhaseReady
	PhaseLoading
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhasePulling:
		return "pulling"
	case PhaseReady:
		return "ready"
	case PhaseLoading:
		return "loading"
	}
	return "unknown"
}

// Scheduler runs fn once after d on the caller's event loop
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to Scheduler
type SchedulerFunc func(d time.Duration, fn func())

func (f SchedulerFunc) Schedule(d time.Duration, fn func()) { f(d, fn) }

// Listener is called on every phase change
type Listener func(oldPhase, newPhase Phase)

type subscription struct {
	id       int
	listener Listener
}

// Controller maps classifications to phases. Once loading it ignores all
// input: the reload rebuilds the whole session.
type Controller struct {
	phase     Phase
	delay     time.Duration
	scheduler Scheduler
	reload    func()
	logger    *slog.Logger

	reloadIssued bool
	nextID       int
	listeners    []subscription
}

// NewController creates a controller in the hidden phase
func NewController(delay time.Duration, scheduler Scheduler, reload func(), logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		delay:     delay,
		scheduler: scheduler,
		reload:    reload,
		logger:    logger,
	}
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// Observe updates the phase from the classification of a move
func (c *Controller) Observe(cl gesture.Classification) {
	if c.phase == PhaseLoading {
		return
	}
	c.set(phaseFor(cl))
}

// Release handles the end of a sequence. Ready arms the reload; anything
// else hides the indicator.
func (c *Controller) Release() {
	switch c.phase {
	case PhaseLoading:
		return
	case PhaseReady:
		c.set(PhaseLoading)
		c.scheduleReload()
	default:
		c.set(PhaseHidden)
	}
}

// Reset hides the indicator on cancel or a new sequence
func (c *Controller) Reset() {
	if c.phase == PhaseLoading {
		return
	}
	c.set(PhaseHidden)
}

// Subscribe registers a phase listener and returns its remover
func (c *Controller) Subscribe(listener Listener) func() {
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, listener: listener})
	return func() {
		for i, sub := range c.listeners {
			if sub.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) scheduleReload() {
	if c.reloadIssued {
		return
	}
	c.reloadIssued = true
	c.logger.Info("pull to refresh released, reload scheduled", "delay", c.delay)

	fire := func() {
		if c.reload != nil {
			c.reload()
		}
	}
	if c.scheduler == nil {
		fire()
		return
	}
	c.scheduler.Schedule(c.delay, fire)
}

func (c *Controller) set(next Phase) {
	if next == c.phase {
		return
	}
	old := c.phase
	c.phase = next
	c.logger.Debug("refresh phase changed", "from", old.String(), "to", next.String())

	subs := make([]subscription, len(c.listeners))
	copy(subs, c.listeners)
	for _, sub := range subs {
		sub.listener(old, next)
	}
}

func phaseFor(cl gesture.Classification) Phase {
	if cl.Class != gesture.ClassPullToRefresh {
		return PhaseHidden
	}
	switch cl.Phase {
	case gesture.PhaseCommitted:
		return PhaseReady
	case gesture.PhaseTracking:
		return PhasePulling
	}
	return PhaseHidden
}
