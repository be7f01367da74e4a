package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	desc    lipgloss.Style
	note    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		desc:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		note:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

// Render generates the help page for the pager
func (r *HelpRenderer) Render(keys KeyMap) string {
	var help strings.Builder

	help.WriteString(r.title.Render("menubook Help"))
	help.WriteString("\n")

	r.writeSection(&help, "Turning pages", keys.Prev, keys.Next, keys.First, keys.Last, keys.Tab, keys.Jump)
	r.writeSection(&help, "Page content", keys.ScrollUp, keys.ScrollDown, keys.PageUp, keys.PageDown, keys.Pager)
	r.writeSection(&help, "Other", keys.Reload, keys.Help, keys.Quit)

	help.WriteString(r.section.Render("Mouse"))
	help.WriteString("\n")
	r.writeLine(&help, "click", "prev/next buttons and category tabs")
	r.writeLine(&help, "drag ←/→", "turn the page")
	r.writeLine(&help, "drag ↓", "from the top of the page: pull to refresh")
	r.writeLine(&help, "wheel", "scroll the page content")
	help.WriteString("\n")
	help.WriteString(r.note.Render("  Pages scrolled away from the top scroll on drag instead of refreshing."))

	return help.String()
}

func (r *HelpRenderer) writeSection(b *strings.Builder, title string, bindings ...key.Binding) {
	b.WriteString(r.section.Render(title))
	b.WriteString("\n")
	for _, binding := range bindings {
		h := binding.Help()
		r.writeLine(b, h.Key, h.Desc)
	}
	b.WriteString("\n")
}

func (r *HelpRenderer) writeLine(b *strings.Builder, k, desc string) {
	fmt.Fprintf(b, "  %s  %s\n", r.key.Render(fmt.Sprintf("%-10s", k)), r.desc.Render(desc))
}

// PagerOps shows text in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// Show runs the pager over content until the user exits it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
