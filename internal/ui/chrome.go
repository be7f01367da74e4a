package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"menubook/internal/syncview"
)

// Rows of the chrome above the book
const (
	rowBrand = iota
	rowBanner
	rowControls
	rowTabs
	chromeRows
)

const (
	prevLabel = " ‹ Prev "
	nextLabel = " Next › "
)

// span is a half-open column range [start, end)
type span struct {
	start, end int
}

func (s span) contains(x int) bool {
	return x >= s.start && x < s.end
}

type tabSpan struct {
	span
	index int
}

// controls is the rendered navigation row with its clickable areas
type controls struct {
	line string
	prev span
	next span
}

func renderControls(v syncview.View, width int, styles *Styles) controls {
	prevStyle, nextStyle := styles.Button, styles.Button
	if v.PrevDisabled {
		prevStyle = styles.ButtonDisabled
	}
	if v.NextDisabled {
		nextStyle = styles.ButtonDisabled
	}
	prev := prevStyle.Render(prevLabel)
	next := nextStyle.Render(nextLabel)
	indicator := styles.Indicator.Render(v.Indicator)

	prevW, nextW := lipgloss.Width(prev), lipgloss.Width(next)
	gap := max(2, (width-prevW-nextW-lipgloss.Width(indicator))/2)

	line := prev + strings.Repeat(" ", gap) + indicator + strings.Repeat(" ", gap) + next
	nextStart := prevW + 2*gap + lipgloss.Width(indicator)
	return controls{
		line: line,
		prev: span{0, prevW},
		next: span{nextStart, nextStart + nextW},
	}
}

// renderTabs lays the tabs out left to right, dropping the ones that do not
// fit. The active tab is always kept in view.
func renderTabs(v syncview.View, width int, styles *Styles) (string, []tabSpan) {
	if len(v.Tabs) == 0 {
		return "", nil
	}

	first := 0
	if active := v.ActiveTab(); active >= 0 {
		for first < active && tabsWidth(v.Tabs[first:active+1]) > width {
			first++
		}
	}

	var b strings.Builder
	var spans []tabSpan
	x := 0
	for _, t := range v.Tabs[first:] {
		label := " " + t.Label + " "
		w := xansi.StringWidth(label)
		if x+w > width {
			break
		}
		style := styles.Tab
		if t.Active {
			style = styles.TabActive
		}
		b.WriteString(style.Render(label))
		spans = append(spans, tabSpan{span: span{x, x + w}, index: t.Index})
		x += w
		if x < width {
			b.WriteString(" ")
			x++
		}
	}
	return b.String(), spans
}

func tabsWidth(tabs []syncview.TabView) int {
	w := 0
	for _, t := range tabs {
		w += xansi.StringWidth(t.Label) + 3
	}
	return w
}

func renderBanner(b syncview.RefreshBanner, hint string, styles *Styles) string {
	switch {
	case b.Loading:
		return styles.BannerLoading.Render("⟳ " + b.Text)
	case b.Ready:
		return styles.BannerReady.Render("↑ " + b.Text)
	case b.Visible:
		return styles.Banner.Render("↓ " + b.Text)
	}
	return styles.Hint.Render(hint)
}
