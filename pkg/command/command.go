package command

import "time"

// Command is one entry in the pipeline: a compiled pattern (plus optional
// alias patterns tried in the same slot), a priority used for dispatch
// ordering and queue preemption, an optional context-dependent cooldown,
// and the handlers invoked on a successful or failed match.
type Command struct {
	Name     string
	Pattern  *Pattern
	Aliases  []*Pattern
	Priority int

	// Cooldown, if set, returns how long the actor's action queue should
	// block after this command runs (e.g. zero when there is no target).
	// A nil Cooldown means no cooldown.
	Cooldown func(ctx *Context, args map[string]Value) time.Duration

	// Execute runs the command against a successfully resolved argument
	// set.
	Execute func(ctx *Context, args map[string]Value) error

	// OnError, if set, is invoked instead of Execute when the pattern
	// matches but a required argument fails to resolve. A nil OnError
	// means the pipeline reports the error's Message directly.
	OnError func(ctx *Context, err error)
}

// NewCommand compiles pattern (and any aliasPatterns) into a Command. It
// panics on a malformed pattern, since patterns are a startup-time,
// programmer-authored artifact — the same posture the teacher takes toward
// a malformed regexp baked into source (see pkg/validation's use of
// regexp.MustCompile for static patterns).
func NewCommand(name, pattern string, aliasPatterns ...string) *Command {
	p, err := CompilePattern(pattern)
	if err != nil {
		panic(err)
	}
	var aliases []*Pattern
	for _, a := range aliasPatterns {
		ap, err := CompilePattern(a)
		if err != nil {
			panic(err)
		}
		aliases = append(aliases, ap)
	}
	return &Command{Name: name, Pattern: p, Aliases: aliases}
}

// patterns returns the command's main pattern followed by its aliases, the
// order in which they are tried against an inbound line.
func (c *Command) patterns() []*Pattern {
	out := make([]*Pattern, 0, 1+len(c.Aliases))
	out = append(out, c.Pattern)
	out = append(out, c.Aliases...)
	return out
}

// tryMatch finds the first pattern (main, then aliases) that binds line,
// resolving every bound argument against ctx. A required argument that
// fails to resolve returns the underlying *Error; an optional one that
// fails is simply omitted from the result.
func (c *Command) tryMatch(ctx *Context, line string) (args map[string]Value, matched bool, resolveErr error) {
	for _, p := range c.patterns() {
		raw, ok := p.Match(line)
		if !ok {
			continue
		}
		args = make(map[string]Value, len(p.Args()))
		for _, spec := range p.Args() {
			text, present := raw[spec.Name]
			if !present {
				continue
			}
			v, err := resolveArg(ctx, spec, text)
			if err != nil {
				if spec.Optional {
					continue
				}
				return nil, true, err
			}
			args[spec.Name] = v
		}
		return args, true, nil
	}
	return nil, false, nil
}
