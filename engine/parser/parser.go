// Package parser implements the command matcher: per-locale phrase
// templates compiled into ordered regular-expression matchers that map a
// normalized input line to a canonical command id and raw argument
// strings. Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mkraus/polyquest/types"
)

// Placeholders usable in phrase templates. $a captures the first argument,
// $b the second. A placeholder followed by more literal tokens captures
// non-greedily; a trailing placeholder captures the rest of the line.
const (
	PlaceholderA = "$a"
	PlaceholderB = "$b"
)

type pattern struct {
	command    string
	template   string
	re         *regexp.Regexp
	literalLen int
}

// Matcher holds the compiled templates of one locale, ordered so that
// longer, more specific phrasings win over short catch-alls.
type Matcher struct {
	patterns []pattern

	// Reverse maps each template's base literal token back to its command
	// id, for usage and help text.
	Reverse map[string]string
}

// Normalize collapses runs of whitespace and trims the input. Matching
// itself is case-insensitive, so case is left alone.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Compile builds a Matcher from the command metadata and the locale's
// phrase templates. Every command id is additionally matched by its
// canonical spelling, regardless of locale, so commands stay addressable
// in any language.
func Compile(info map[string]types.CommandInfo, phrases map[string][]string) (*Matcher, error) {
	m := &Matcher{Reverse: map[string]string{}}

	ids := make([]string, 0, len(info))
	for id := range info {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ci := info[id]
		for _, tpl := range phrases[id] {
			p, base, err := compileTemplate(id, tpl, ci)
			if err != nil {
				return nil, fmt.Errorf("command %s template %q: %w", id, tpl, err)
			}
			m.patterns = append(m.patterns, p)
			if _, ok := m.Reverse[base]; !ok {
				m.Reverse[base] = id
			}
		}
	}

	// Canonical fallback templates, one per command id.
	for _, id := range ids {
		ci := info[id]
		var src string
		switch {
		case ci.Arguments == 2:
			src = `^(?i)` + regexp.QuoteMeta(id) + `\s+(?P<a>.+?)\s+(?P<b>.+)$`
		case ci.Arguments == 1:
			src = `^(?i)` + regexp.QuoteMeta(id) + `\s+(?P<a>.+)$`
		case ci.OptionalNumber:
			src = `^(?i)` + regexp.QuoteMeta(id) + `(?:\s+(?P<a>\d+))?$`
		case ci.OptionalArg:
			src = `^(?i)` + regexp.QuoteMeta(id) + `(?:\s+(?P<a>.+))?$`
		default:
			src = `^(?i)` + regexp.QuoteMeta(id) + `$`
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("command %s canonical template: %w", id, err)
		}
		m.patterns = append(m.patterns, pattern{
			command:    id,
			template:   id,
			re:         re,
			literalLen: len(id),
		})
		if _, ok := m.Reverse[id]; !ok {
			m.Reverse[id] = id
		}
	}

	// Longer literal content first, so "look at $a" beats "look".
	sort.SliceStable(m.patterns, func(i, j int) bool {
		return m.patterns[i].literalLen > m.patterns[j].literalLen
	})

	return m, nil
}

// compileTemplate turns one phrase template into an anchored matcher.
func compileTemplate(id, tpl string, ci types.CommandInfo) (pattern, string, error) {
	tokens := strings.Fields(tpl)
	if len(tokens) == 0 {
		return pattern{}, "", fmt.Errorf("empty template")
	}

	lastPlaceholder := -1
	for i, tok := range tokens {
		if tok == PlaceholderA || tok == PlaceholderB {
			lastPlaceholder = i
		}
	}

	base := ""
	literalLen := 0
	parts := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		switch tok {
		case PlaceholderA:
			if i == lastPlaceholder {
				parts = append(parts, `(?P<a>.+)`)
			} else {
				parts = append(parts, `(?P<a>.+?)`)
			}
		case PlaceholderB:
			if i == lastPlaceholder {
				parts = append(parts, `(?P<b>.+)`)
			} else {
				parts = append(parts, `(?P<b>.+?)`)
			}
		default:
			if base == "" {
				base = tok
			}
			literalLen += len(tok)
			parts = append(parts, regexp.QuoteMeta(tok))
		}
	}

	src := `^(?i)` + strings.Join(parts, `\s+`)
	if ci.OptionalNumber && lastPlaceholder == -1 {
		src += `(?:\s+(?P<a>\d+))?`
	}
	src += `$`

	re, err := regexp.Compile(src)
	if err != nil {
		return pattern{}, "", err
	}
	if base == "" {
		base = tpl
	}
	return pattern{command: id, template: tpl, re: re, literalLen: literalLen}, base, nil
}

// Match maps an input line to (command id, raw arguments). Candidates are
// tried in descending literal length; the first anchored full match wins.
func (m *Matcher) Match(input string) (string, map[string]string, bool) {
	input = Normalize(input)
	if input == "" {
		return "", nil, false
	}
	for _, p := range m.patterns {
		groups := p.re.FindStringSubmatch(input)
		if groups == nil {
			continue
		}
		args := map[string]string{}
		for i, name := range p.re.SubexpNames() {
			if name != "" && i < len(groups) {
				args[name] = strings.TrimSpace(groups[i])
			}
		}
		return p.command, args, true
	}
	return "", nil, false
}
