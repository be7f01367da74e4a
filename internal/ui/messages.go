package ui

import (
	"time"

	"menubook/internal/book"
	"menubook/internal/menu"
)

// menuLoadedMsg carries the result of loading the menu document
type menuLoadedMsg struct {
	menu *menu.Menu
	err  error
}

// frameMsg drives the page-turn animation
type frameMsg time.Time

// scheduledMsg runs a deferred continuation on the update loop. It is
// dropped when the session that scheduled it has been replaced.
type scheduledMsg struct {
	session *book.Session
	fn      func()
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
