package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"menubook/internal/gesture"
	"menubook/internal/menu"
)

// pageElement is the rendered container of one menu page: a fixed head and
// foot around a scrollable body. The body is the page's scroll region.
type pageElement struct {
	index    int
	total    int
	content  menu.Page
	renderer *menu.Renderer

	width  int
	height int
	head   string
	foot   string
	body   viewport.Model
}

func newPageElement(index, total int, content menu.Page, renderer *menu.Renderer) *pageElement {
	return &pageElement{
		index:    index,
		total:    total,
		content:  content,
		renderer: renderer,
		body:     viewport.New(0, 0),
	}
}

// SetSize lays the page out and re-wraps the body
func (p *pageElement) SetSize(width, height int) {
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.head = p.renderer.Head(p.content, width)
	p.foot = p.renderer.Foot(p.index, p.total, width)

	offset := p.body.YOffset
	p.body.Width = width
	p.body.Height = max(1, height-lipgloss.Height(p.head)-lipgloss.Height(p.foot)-2)
	p.body.SetContent(p.renderer.Body(p.content, width))
	p.body.SetYOffset(offset)
}

// View renders head, body and foot separated by blank lines
func (p *pageElement) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, p.head, "", p.body.View(), "", p.foot)
}

// Hard marks pages that flip without a curl
func (p *pageElement) Hard() bool {
	return p.content.Hard
}

// Parent implements gesture.Node; the page is a root
func (p *pageElement) Parent() gesture.Node {
	return nil
}

// ScrollOffset implements gesture.ScrollRegion
func (p *pageElement) ScrollOffset() int {
	return p.body.YOffset
}

// ScrollBy scrolls the body, clamped to its content
func (p *pageElement) ScrollBy(delta int) {
	p.body.SetYOffset(p.body.YOffset + delta)
}

// BodyHeight returns the number of visible body rows
func (p *pageElement) BodyHeight() int {
	return p.body.Height
}

// NodeAt returns the node under row, relative to the page top. Rows of the
// body hit the scroll region; head and foot hit nothing scrollable.
func (p *pageElement) NodeAt(row int) gesture.Node {
	top := lipgloss.Height(p.head) + 1
	if row >= top && row < top+p.body.Height {
		return p
	}
	return nil
}

// PlainText returns the whole page without truncation, for the pager
func (p *pageElement) PlainText() string {
	width := max(p.width, 60)
	return lipgloss.JoinVertical(lipgloss.Left,
		p.renderer.Head(p.content, width), "",
		p.renderer.Body(p.content, width), "",
		p.renderer.Foot(p.index, p.total, width))
}
