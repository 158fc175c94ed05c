package command

import (
	"fmt"
	"regexp"
	"strings"
)

// ArgSpec describes one named argument hole declared in a pattern.
type ArgSpec struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Pattern is a compiled command grammar: literal words (optionally
// tilde-glued for prefix autocomplete), quoted multi-word literals, and
// named argument holes, compiled down to a single case-insensitive regular
// expression with one named capture group per argument hole.
type Pattern struct {
	Source string
	re     *regexp.Regexp
	args   []ArgSpec
}

var argHoleRe = regexp.MustCompile(`^<([a-zA-Z_][a-zA-Z0-9_]*):([a-z@]+)(\?)?>$`)

// CompilePattern parses a pattern source string into a Pattern. The grammar:
// whitespace-separated literal words; a `~` inside a word marks everything
// before it as the mandatory prefix and everything after it as optional,
// contiguous autocomplete characters (e.g. "l~ook" matches "l", "lo", "loo",
// "look"); `'quoted multi word literals'` match the enclosed phrase as a
// single unit; and `<name:kind>` / `<name:kind?>` argument holes bind a
// token (or, for kind text, the rest of the line) under name, the trailing
// `?` marking it optional.
func CompilePattern(source string) (*Pattern, error) {
	tokens, err := tokenizePattern(source)
	if err != nil {
		return nil, err
	}

	var pieces []string
	var args []ArgSpec

	for i, tok := range tokens {
		piece, spec, err := compileToken(tok)
		if err != nil {
			return nil, fmt.Errorf("command: pattern %q: %w", source, err)
		}
		if spec != nil {
			args = append(args, *spec)
		}

		if i == 0 {
			pieces = append(pieces, piece)
			continue
		}
		if spec != nil && spec.Optional {
			pieces = append(pieces, fmt.Sprintf(`(?:\s+%s)?`, piece))
		} else {
			pieces = append(pieces, `\s+`+piece)
		}
	}

	full := "(?i)^" + strings.Join(pieces, "") + "$"
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, fmt.Errorf("command: pattern %q compiled to invalid regexp: %w", source, err)
	}
	return &Pattern{Source: source, re: re, args: args}, nil
}

// tokenizePattern splits source on whitespace, re-joining single-quoted
// multi-word literals into one token (quotes stripped).
func tokenizePattern(source string) ([]string, error) {
	fields := strings.Fields(source)
	var tokens []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if !strings.HasPrefix(f, "'") {
			tokens = append(tokens, f)
			continue
		}
		phrase := []string{strings.TrimPrefix(f, "'")}
		j := i
		for !strings.HasSuffix(fields[j], "'") {
			j++
			if j >= len(fields) {
				return nil, fmt.Errorf("command: pattern %q has an unterminated quoted literal", source)
			}
			phrase = append(phrase, fields[j])
		}
		last := phrase[len(phrase)-1]
		phrase[len(phrase)-1] = strings.TrimSuffix(last, "'")
		tokens = append(tokens, strings.Join(phrase, " "))
		i = j
	}
	return tokens, nil
}

// compileToken turns one pattern token into a regex fragment and, for an
// argument hole, its ArgSpec.
func compileToken(tok string) (string, *ArgSpec, error) {
	if strings.HasPrefix(tok, "<") {
		m := argHoleRe.FindStringSubmatch(tok)
		if m == nil {
			return "", nil, fmt.Errorf("malformed argument hole %q", tok)
		}
		name, kindStr, optMark := m[1], m[2], m[3]
		kind, ok := parseKind(kindStr)
		if !ok {
			return "", nil, fmt.Errorf("argument hole %q: unrecognized kind %q", tok, kindStr)
		}
		spec := &ArgSpec{Name: name, Kind: kind, Optional: optMark == "?"}
		capture := `\S+`
		if kind.greedy() {
			capture = `.+`
		}
		return fmt.Sprintf(`(?P<%s>%s)`, name, capture), spec, nil
	}

	if strings.Contains(tok, " ") {
		// a reassembled quoted multi-word literal.
		return regexp.QuoteMeta(tok), nil, nil
	}

	if idx := strings.Index(tok, "~"); idx >= 0 {
		prefix, rest := tok[:idx], tok[idx+1:]
		tail := ""
		for i := len(rest) - 1; i >= 0; i-- {
			tail = "(?:" + regexp.QuoteMeta(string(rest[i])) + tail + ")?"
		}
		return regexp.QuoteMeta(prefix) + tail, nil, nil
	}

	return regexp.QuoteMeta(tok), nil, nil
}

// Match attempts to bind line against the pattern, returning the raw
// (unresolved) text captured for each argument hole present in the match,
// keyed by hole name. ok is false if line does not match the pattern at
// all.
func (p *Pattern) Match(line string) (raw map[string]string, ok bool) {
	m := p.re.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, false
	}
	raw = make(map[string]string, len(p.args))
	for i, name := range p.re.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		if m[i] != "" {
			raw[name] = m[i]
		}
	}
	return raw, true
}

// Args returns the argument holes declared by the pattern, in declaration
// order.
func (p *Pattern) Args() []ArgSpec {
	out := make([]ArgSpec, len(p.args))
	copy(out, p.args)
	return out
}
