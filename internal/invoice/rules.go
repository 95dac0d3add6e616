package invoice

import (
	"regexp"
	"strings"

	"github.com/garyjia/invoice-labeler/internal/models"
)

// Rule is one step of a fallback chain. TryMatch reports whether the rule
// found a value in the document text.
type Rule interface {
	Name() string
	TryMatch(text string) (string, bool)
}

// Chain tries its rules in order; the first match wins
type Chain struct {
	Rules []Rule
}

// Extract runs the chain and returns the first match together with the name
// of the rule that produced it
func (c Chain) Extract(text string) (models.Field, string) {
	for _, rule := range c.Rules {
		if value, ok := rule.TryMatch(text); ok {
			return models.FoundField(value), rule.Name()
		}
	}
	return models.Missing(), ""
}

// patternRule returns the first capture group of a pattern, optionally
// rewritten by clean
type patternRule struct {
	name    string
	pattern *regexp.Regexp
	clean   func(string) string
}

func (r patternRule) Name() string { return r.name }

func (r patternRule) TryMatch(text string) (string, bool) {
	m := r.pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	value := m[1]
	if r.clean != nil {
		value = r.clean(value)
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// markedLineRule returns the first line containing marker and not exclude
type markedLineRule struct {
	name    string
	marker  *regexp.Regexp
	exclude *regexp.Regexp
}

func (r markedLineRule) Name() string { return r.name }

func (r markedLineRule) TryMatch(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !r.marker.MatchString(line) || r.exclude.MatchString(line) {
			continue
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

// sectionRule applies inner to the text starting at the first section
// marker, or to the whole text when the marker is absent
type sectionRule struct {
	name    string
	section *regexp.Regexp
	inner   Rule
}

func (r sectionRule) Name() string { return r.name }

func (r sectionRule) TryMatch(text string) (string, bool) {
	if loc := r.section.FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	}
	return r.inner.TryMatch(text)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// VendorChain finds the seller name: the line after "Sprzedawca", else the
// first line carrying a company-form marker outside the buyer and tax-ID lines
func VendorChain() Chain {
	return Chain{
		Rules: []Rule{
			patternRule{
				name:    "seller_label",
				pattern: regexp.MustCompile(`(?i)Sprzedawca:?\s*\n?([^\n]+)\n`),
				clean:   strings.TrimSpace,
			},
			markedLineRule{
				name:    "company_marker_line",
				marker:  regexp.MustCompile(`(?i)sp\.?`),
				exclude: regexp.MustCompile(`(?i)Nabywca|NIP`),
			},
		},
	}
}

// BuyerTaxIDChain finds the buyer's NIP: a labelled 10-digit number in the
// buyer section, else the first standalone 10-digit number in the document
func BuyerTaxIDChain() Chain {
	return Chain{
		Rules: []Rule{
			sectionRule{
				name:    "buyer_section_nip",
				section: regexp.MustCompile(`(?i)Nabywca`),
				inner: patternRule{
					name:    "nip_label",
					pattern: regexp.MustCompile(`NIP[:\s]*([0-9]{10})`),
				},
			},
			patternRule{
				name:    "standalone_ten_digits",
				pattern: regexp.MustCompile(`(?:^|[^0-9])([0-9]{10})(?:[^0-9]|$)`),
			},
		},
	}
}

// InvoiceNumberChain finds the invoice number: a letter-prefixed
// number/month/year, else a bare number/month/year
func InvoiceNumberChain() Chain {
	return Chain{
		Rules: []Rule{
			patternRule{
				name:    "prefixed_number",
				pattern: regexp.MustCompile(`([A-Z]{1,3}\s*\d+[/-]\d+[/-]\d{2,4})`),
				clean:   collapseWhitespace,
			},
			patternRule{
				name:    "bare_number",
				pattern: regexp.MustCompile(`(\d+[/-]\d+[/-]\d{4})`),
			},
		},
	}
}
