// Package pageturn bridges the navigation state and a page-turn engine that
// owns its own animated page cursor.
package pageturn

import (
	"time"

	"menubook/internal/deck"
)

// EventName identifies an engine event
type EventName string

const (
	// EventFlip fires when the engine cursor changed
	EventFlip EventName = "flip"
	// EventChangeOrientation fires when the viewport reflows
	EventChangeOrientation EventName = "changeOrientation"
)

// Corner is the page corner a flip animates from
type Corner string

const (
	CornerTop    Corner = "top"
	CornerBottom Corner = "bottom"
)

// Orientation of the engine viewport
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Event is delivered to engine handlers. Index is set for EventFlip and
// Orientation for EventChangeOrientation.
type Event struct {
	Name        EventName
	Index       int
	Orientation Orientation
}

// Engine is the capability the adapter consumes
type Engine interface {
	Load(pages []deck.Element) error
	Flip(index int, corner Corner)
	CurrentPageIndex() int
	PageCount() int
	On(name EventName, handler func(Event))
}

// PointerKind is the step of a pointer sequence
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerInput is a pointer event forwarded to an engine
type PointerInput struct {
	Kind PointerKind
	X, Y int
}

// NativeGestures is implemented by engines that turn pages on their own
// pointer handling
type NativeGestures interface {
	HandlePointer(in PointerInput)
}

// Animator is implemented by engines that animate on host frames. Advance
// reports whether more frames are needed.
type Animator interface {
	Advance(now time.Time) bool
}

// Viewport is implemented by engines that lay pages out for a size
type Viewport interface {
	Resize(width, height int)
	View() string
}
