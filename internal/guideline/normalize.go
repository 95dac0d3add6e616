package guideline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeVendor is the single normalisation used for both import and lookup
func NormalizeVendor(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}
