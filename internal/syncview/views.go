// Package syncview projects the navigation state onto the indicator, the
// prev/next controls and the category tabs. It holds no state of its own.
package syncview

import (
	"fmt"

	"menubook/internal/navigation"
	"menubook/internal/refresh"
)

// Tab is a category shortcut to a page
type Tab struct {
	Label string
	Index int
}

// TabView is a tab as displayed
type TabView struct {
	Tab
	Active bool
}

// View is everything the controls show for one navigation state
type View struct {
	Indicator    string
	PrevDisabled bool
	NextDisabled bool
	Tabs         []TabView
}

// ActiveTab returns the index of the active tab in Tabs, or -1
func (v View) ActiveTab() int {
	for i, t := range v.Tabs {
		if t.Active {
			return i
		}
	}
	return -1
}

// Project computes the controls for a snapshot
func Project(s navigation.Snapshot, tabs []Tab) View {
	v := View{
		Indicator:    fmt.Sprintf("%d / %d", s.Current+1, s.Count),
		PrevDisabled: s.Current <= 0,
		NextDisabled: s.Current >= s.Count-1,
		Tabs:         make([]TabView, len(tabs)),
	}
	for i, t := range tabs {
		v.Tabs[i] = TabView{Tab: t, Active: t.Index == s.Current}
	}
	return v
}

// RefreshBanner is the pull-to-refresh indicator as displayed
type RefreshBanner struct {
	Visible bool
	Ready   bool
	Loading bool
	Text    string
}

// Banner projects a refresh phase
func Banner(p refresh.Phase) RefreshBanner {
	switch p {
	case refresh.PhasePulling:
		return RefreshBanner{Visible: true, Text: "Pull down to refresh"}
	case refresh.PhaseReady:
		return RefreshBanner{Visible: true, Ready: true, Text: "Release to refresh"}
	case refresh.PhaseLoading:
		return RefreshBanner{Visible: true, Loading: true, Text: "Refreshing…"}
	}
	return RefreshBanner{}
}

// Hint returns the navigation hint, shortened for large menus
func Hint(count int) string {
	if count > 8 {
		return "Tip: use the arrows above to turn pages."
	}
	return "Turn pages with ←/→, the buttons or the category tabs. Pull down from the top to refresh."
}
