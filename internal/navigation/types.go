package navigation

import "errors"

// ErrInvalidCount is returned when a state is created with fewer than one page
var ErrInvalidCount = errors.New("page count must be at least 1")

// Direction represents movement directions
type Direction string

const (
	DirectionPrev  Direction = "prev"
	DirectionNext  Direction = "next"
	DirectionFirst Direction = "first"
	DirectionLast  Direction = "last"
)

// Listener is called with the old and new index after every change
type Listener func(oldIndex, newIndex int)

// Snapshot is a read-only copy of the state
type Snapshot struct {
	Current int
	Count   int
}
