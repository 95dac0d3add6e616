package guideline

import (
	"regexp"
	"strconv"
	"strings"
)

// TokenRole is the role a label token plays
type TokenRole int

const (
	RoleUnknown TokenRole = iota
	RoleCostCenter
	RoleGroup
	RoleHistoricalNumber
)

// tokenRule classifies one trimmed token of a guideline label
type tokenRule struct {
	role  TokenRole
	match func(token string) bool
}

// maxHistoricalValue bounds historical numbers so the next assignment cannot
// overflow
const maxHistoricalValue = 999999

var (
	groupPattern      = regexp.MustCompile(`^\d+/\d{1,3}$`)
	historicalPattern = regexp.MustCompile(`^(\d+)/(\d{4})$`)
)

// tokenRules is evaluated in order and the first match wins. A token only ever
// takes one role.
var tokenRules = []tokenRule{
	{
		role: RoleCostCenter,
		match: func(token string) bool {
			return strings.HasPrefix(strings.ToUpper(token), "MPK")
		},
	},
	{
		role:  RoleGroup,
		match: groupPattern.MatchString,
	},
	{
		role:  RoleHistoricalNumber,
		match: historicalPattern.MatchString,
	},
}

// ClassifyToken returns the role of a single label token
func ClassifyToken(token string) TokenRole {
	token = strings.TrimSpace(token)
	for _, rule := range tokenRules {
		if rule.match(token) {
			return rule.role
		}
	}
	return RoleUnknown
}

// Label is a parsed guideline label, e.g. "3/8;MPK610;180/2025"
type Label struct {
	CostCenter string
	Group      string

	HistoricalValue int
	HistoricalYear  int
	HasHistorical   bool
}

// ParseLabel splits a semicolon-delimited label and classifies each token.
// When several tokens share a role the last one wins.
func ParseLabel(raw string) Label {
	var label Label

	for _, part := range strings.Split(raw, ";") {
		token := strings.TrimSpace(part)
		switch ClassifyToken(token) {
		case RoleCostCenter:
			label.CostCenter = strings.ToUpper(token)
		case RoleGroup:
			label.Group = token
		case RoleHistoricalNumber:
			m := historicalPattern.FindStringSubmatch(token)
			value, errValue := strconv.Atoi(m[1])
			year, errYear := strconv.Atoi(m[2])
			if errValue != nil || errYear != nil || value > maxHistoricalValue {
				continue
			}
			label.HistoricalValue = value
			label.HistoricalYear = year
			label.HasHistorical = true
		}
	}

	return label
}
