package menu

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultCurrency is used when the restaurant does not declare one
const DefaultCurrency = "₺"

// Menu is the whole content document
type Menu struct {
	Restaurant Restaurant `json:"restaurant" yaml:"restaurant" toml:"restaurant"`
	Pages      []Page     `json:"pages" yaml:"pages" toml:"pages"`
}

// Restaurant holds branding and footer data shared by every page
type Restaurant struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Tagline     string `json:"tagline" yaml:"tagline" toml:"tagline"`
	LogoPath    string `json:"logoPath" yaml:"logoPath" toml:"logoPath"`
	Currency    string `json:"currency" yaml:"currency" toml:"currency"`
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated" toml:"lastUpdated"`
	FooterNote  string `json:"footerNote" yaml:"footerNote" toml:"footerNote"`
}

// Page is one menu page descriptor
type Page struct {
	Title    string    `json:"title" yaml:"title" toml:"title"`
	Subtitle string    `json:"subtitle" yaml:"subtitle" toml:"subtitle"`
	NavLabel string    `json:"navLabel" yaml:"navLabel" toml:"navLabel"`
	Hard     bool      `json:"hard" yaml:"hard" toml:"hard"` // density hint for the page-turn engine
	Sections []Section `json:"sections" yaml:"sections" toml:"sections"`
}

// Section groups items under a heading
type Section struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Items []Item `json:"items" yaml:"items" toml:"items"`
}

// Item is a single dish or drink
type Item struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Price       any      `json:"price" yaml:"price" toml:"price"` // string or number
	Tags        []string `json:"tags" yaml:"tags" toml:"tags"`
	Image       string   `json:"image" yaml:"image" toml:"image"`
}

// CurrencyOrDefault returns the declared currency or DefaultCurrency
func (r Restaurant) CurrencyOrDefault() string {
	if strings.TrimSpace(r.Currency) == "" {
		return DefaultCurrency
	}
	return r.Currency
}

// Label returns the category tab text for the page at index
func (p Page) Label(index int) string {
	if label := strings.TrimSpace(p.NavLabel); label != "" {
		return label
	}
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	return fmt.Sprintf("Page %d", index+1)
}

// PriceText returns the raw price as text regardless of how the source encoded it
func (it Item) PriceText() string {
	switch v := it.Price.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
