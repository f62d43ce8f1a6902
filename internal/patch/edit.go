// Package patch applies targeted text substitutions to game resource files.
//
// Resource files use an undocumented brace-delimited key/value format, so
// every edit is positional: a literal or a regular expression that must match
// the file as shipped by the mod.
package patch

import (
	"regexp"
	"strings"
)

// Edit is a single substitution. Apply returns the new content and how many
// sites in content the edit matched.
type Edit interface {
	Apply(content string) (string, int)
	String() string
}

// Literal replaces every occurrence of Old with New.
type Literal struct {
	Old string
	New string
}

func (l Literal) Apply(content string) (string, int) {
	n := strings.Count(content, l.Old)
	if n == 0 || l.Old == "" {
		return content, 0
	}
	return strings.ReplaceAll(content, l.Old, l.New), n
}

func (l Literal) String() string {
	return "literal " + l.Old
}

// Toggle switches a token between two literal states. It matches every site
// in either state, so applying it to an already switched file is a no-op
// rather than a miss.
type Toggle struct {
	On     string
	Off    string
	Enable bool
}

func (t Toggle) Apply(content string) (string, int) {
	from, to := t.On, t.Off
	if t.Enable {
		from, to = t.Off, t.On
	}
	n := strings.Count(content, from) + strings.Count(content, to)
	return strings.ReplaceAll(content, from, to), n
}

func (t Toggle) String() string {
	return "toggle " + t.Off + " / " + t.On
}

// Regex replaces every match of Pattern with Template, which may refer to
// capture groups as ${1}.
type Regex struct {
	Pattern  *regexp.Regexp
	Template string
}

func (r Regex) Apply(content string) (string, int) {
	n := len(r.Pattern.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return r.Pattern.ReplaceAllString(content, r.Template), n
}

func (r Regex) String() string {
	return "regex " + r.Pattern.String()
}

// Sequence replaces capture group Group of the n-th match of Pattern with
// Values[n]. Matches beyond len(Values) are left untouched.
type Sequence struct {
	Pattern *regexp.Regexp
	Group   int
	Values  []string
}

func (s Sequence) Apply(content string) (string, int) {
	matches := s.Pattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	last := 0
	for i, m := range matches {
		if i >= len(s.Values) {
			break
		}
		start, end := m[2*s.Group], m[2*s.Group+1]
		if start < 0 {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(s.Values[i])
		last = end
	}
	b.WriteString(content[last:])
	return b.String(), len(matches)
}

func (s Sequence) String() string {
	return "sequence " + s.Pattern.String()
}

// ReplaceNumber builds a Regex edit that swaps the token matched by the
// second capture group of pattern for value, keeping everything the first
// group matched. pattern must have the shape `(prefix)(token)`.
func ReplaceNumber(pattern *regexp.Regexp, value string) Regex {
	return Regex{Pattern: pattern, Template: "${1}" + EscapeTemplate(value)}
}

// EscapeTemplate makes s safe to use literally in a regexp replacement template.
func EscapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Find returns capture group 1 of the first match of pattern in content.
func Find(content string, pattern *regexp.Regexp) (string, bool) {
	m := pattern.FindStringSubmatch(content)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// FindAll returns capture group 1 of every match of pattern in content.
func FindAll(content string, pattern *regexp.Regexp) []string {
	var out []string
	for _, m := range pattern.FindAllStringSubmatch(content, -1) {
		if len(m) >= 2 {
			out = append(out, m[1])
		}
	}
	return out
}
