// Package deck holds the ordered, immutable set of menu pages.
package deck

import (
	"errors"
	"fmt"

	"menubook/internal/menu"
)

// ErrEmptyDeck is returned when there are no pages to navigate
var ErrEmptyDeck = errors.New("menu has no pages")

// ErrOutOfRange matches any *OutOfRangeError
var ErrOutOfRange = errors.New("page index out of range")

// OutOfRangeError reports a direct lookup outside [0, count-1]
type OutOfRangeError struct {
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("page index %d out of range [0, %d]", e.Index, e.Count-1)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// Element is the rendered container a page is displayed in. The core never
// looks inside it; the page-turn engine sizes and draws it.
type Element interface {
	SetSize(width, height int)
	View() string
}

// Page is one entry of the deck
type Page struct {
	Index    int
	NavLabel string
	Content  menu.Page
	Element  Element
}

// RenderFunc builds the container for a page
type RenderFunc func(index int, content menu.Page) Element

// Deck is the ordered page list
type Deck struct {
	pages []Page
}

// Build creates a deck from content descriptors. render may be nil when no
// visual container is needed.
func Build(contents []menu.Page, render RenderFunc) (*Deck, error) {
	if len(contents) == 0 {
		return nil, ErrEmptyDeck
	}
	pages := make([]Page, len(contents))
	for i, c := range contents {
		pages[i] = Page{
			Index:    i,
			NavLabel: c.Label(i),
			Content:  c,
		}
		if render != nil {
			pages[i].Element = render(i, c)
		}
	}
	return &Deck{pages: pages}, nil
}

// Count returns the number of pages
func (d *Deck) Count() int {
	return len(d.pages)
}

// Get returns the page at index
func (d *Deck) Get(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return Page{}, &OutOfRangeError{Index: index, Count: len(d.pages)}
	}
	return d.pages[index], nil
}

// Pages returns a copy of all pages in order
func (d *Deck) Pages() []Page {
	out := make([]Page, len(d.pages))
	copy(out, d.pages)
	return out
}

// Elements returns the page containers in order
func (d *Deck) Elements() []Element {
	out := make([]Element, len(d.pages))
	for i, p := range d.pages {
		out[i] = p.Element
	}
	return out
}
