// Package classify maps column and metric names onto canonical fields and detects table layout.
package classify

import (
	"regexp"
	"strings"

	"TreasuryWatch/internal/model"
)

// MatchKind selects how a Rule compares a name against its pattern.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchContains
	MatchRegex
)

// Rule assigns Field to any name matching Pattern, unless the name contains one of ExcludeIf.
type Rule struct {
	Field     model.CanonicalField
	Kind      MatchKind
	Pattern   string
	ExcludeIf []string

	re *regexp.Regexp
}

// Exact matches the whole normalised name.
func Exact(f model.CanonicalField, pattern string, exclude ...string) Rule {
	return Rule{Field: f, Kind: MatchExact, Pattern: NormalizeName(pattern), ExcludeIf: exclude}
}

// Contains matches a substring of the normalised name.
func Contains(f model.CanonicalField, pattern string, exclude ...string) Rule {
	return Rule{Field: f, Kind: MatchContains, Pattern: NormalizeName(pattern), ExcludeIf: exclude}
}

// Regex matches a regular expression against the normalised name. It panics on a bad pattern,
// so rule tables fail at init.
func Regex(f model.CanonicalField, pattern string, exclude ...string) Rule {
	return Rule{Field: f, Kind: MatchRegex, Pattern: pattern, ExcludeIf: exclude, re: regexp.MustCompile(pattern)}
}

// Match reports whether an already normalised name satisfies the rule.
func (r Rule) Match(name string) bool {
	var hit bool
	switch r.Kind {
	case MatchExact:
		hit = name == r.Pattern
	case MatchContains:
		hit = strings.Contains(name, r.Pattern)
	case MatchRegex:
		re := r.re
		if re == nil {
			re = regexp.MustCompile(r.Pattern)
		}
		hit = re.MatchString(name)
	}
	if !hit {
		return false
	}
	for _, ex := range r.ExcludeIf {
		if strings.Contains(name, ex) {
			return false
		}
	}
	return true
}

// Ruleset is evaluated in order; the first matching rule wins.
type Ruleset []Rule

// Classify returns the field of the first rule matching name.
func (rs Ruleset) Classify(name string) (model.CanonicalField, bool) {
	n := NormalizeName(name)
	if n == "" {
		return 0, false
	}
	for _, r := range rs {
		if r.Match(n) {
			return r.Field, true
		}
	}
	return 0, false
}

// NormalizeName lower-cases, trims and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
