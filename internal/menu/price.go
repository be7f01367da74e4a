package menu

import (
	"regexp"
	"strings"
)

var currencyMarker = regexp.MustCompile(`(?i)₺|TL|TRY|€|\$|£`)

// FormatPrice appends the currency unless the price already carries one
func FormatPrice(price, currency string) string {
	p := strings.TrimSpace(price)
	if p == "" {
		return ""
	}
	if currencyMarker.MatchString(p) || currency == "" {
		return p
	}
	return p + " " + currency
}
