package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used when templating pages
type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Meta         lipgloss.Style
	SectionTitle lipgloss.Style
	ItemName     lipgloss.Style
	ItemDesc     lipgloss.Style
	Tag          lipgloss.Style
	Price        lipgloss.Style
	Empty        lipgloss.Style
	Foot         lipgloss.Style
}

// DefaultStyles returns the standard page palette
func DefaultStyles() Styles {
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("222")),
		Subtitle:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("246")),
		Meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		SectionTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("173")).MarginTop(1),
		ItemName:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		ItemDesc:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Tag:          lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		Price:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Empty:        lipgloss.NewStyle().Faint(true),
		Foot:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Renderer turns page descriptors into terminal text
type Renderer struct {
	restaurant Restaurant
	styles     Styles
}

// NewRenderer creates a renderer for one restaurant
func NewRenderer(restaurant Restaurant, styles Styles) *Renderer {
	return &Renderer{restaurant: restaurant, styles: styles}
}

// Head renders the fixed top part of a page: titles on the left, meta on the right
func (r *Renderer) Head(page Page, width int) string {
	title := page.Title
	if strings.TrimSpace(title) == "" {
		title = "Page"
	}
	left := []string{r.styles.Title.Render(title)}
	if page.Subtitle != "" {
		left = append(left, r.styles.Subtitle.Render(page.Subtitle))
	}

	var meta []string
	if r.restaurant.Name != "" {
		meta = append(meta, r.restaurant.Name)
	}
	if r.restaurant.LastUpdated != "" {
		meta = append(meta, "Updated: "+r.restaurant.LastUpdated)
	}

	leftBlock := lipgloss.JoinVertical(lipgloss.Left, left...)
	if len(meta) == 0 {
		return leftBlock
	}
	rightBlock := r.styles.Meta.Align(lipgloss.Right).Render(strings.Join(meta, "\n"))
	gap := width - lipgloss.Width(leftBlock) - lipgloss.Width(rightBlock)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, leftBlock, rightBlock)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, leftBlock, strings.Repeat(" ", gap), rightBlock)
}

// Body renders the scrollable content of a page
func (r *Renderer) Body(page Page, width int) string {
	if len(page.Sections) == 0 {
		return r.styles.Empty.Render("No content on this page yet.")
	}
	currency := r.restaurant.CurrencyOrDefault()

	var b strings.Builder
	for i, section := range page.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if section.Name != "" {
			b.WriteString(r.styles.SectionTitle.Render(section.Name))
			b.WriteString("\n")
		}
		if len(section.Items) == 0 {
			b.WriteString(r.styles.Empty.Render("No items in this section yet."))
			b.WriteString("\n")
			continue
		}
		for _, item := range section.Items {
			b.WriteString(r.item(item, currency, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) item(item Item, currency string, width int) string {
	price := r.styles.Price.Render(FormatPrice(item.PriceText(), currency))
	name := r.styles.ItemName.Render(item.Name)

	gap := width - lipgloss.Width(name) - lipgloss.Width(price)
	if gap < 1 {
		gap = 1
	}
	lines := []string{name + strings.Repeat(" ", gap) + price}

	if item.Description != "" {
		desc := r.styles.ItemDesc
		if width > 4 {
			desc = desc.Width(width - 2)
		}
		lines = append(lines, "  "+strings.ReplaceAll(desc.Render(item.Description), "\n", "\n  "))
	}
	if len(item.Tags) > 0 {
		tags := make([]string, 0, len(item.Tags))
		for _, t := range item.Tags {
			tags = append(tags, r.styles.Tag.Render("#"+t))
		}
		lines = append(lines, "  "+strings.Join(tags, " "))
	}
	return strings.Join(lines, "\n")
}

// Foot renders the fixed bottom of a page
func (r *Renderer) Foot(index, total, width int) string {
	number := fmt.Sprintf("%d / %d", index+1, total)
	note := r.restaurant.FooterNote
	gap := width - lipgloss.Width(note) - lipgloss.Width(number)
	if gap < 1 {
		gap = 1
	}
	return r.styles.Foot.Render(note + strings.Repeat(" ", gap) + number)
}
