// Package command compiles the verb-argument grammar actors type at the
// prompt into a priority-ordered pipeline of pattern-matched, world-aware
// handlers, queued per actor with cooldown and preemption semantics.
package command

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pipeline is the set of registered commands, tried in priority order
// (highest first) against every inbound line, plus the per-actor queues
// that stage matched actions behind any cooldown.
type Pipeline struct {
	mu       sync.Mutex
	commands []*Command
	queues   *Queues
}

// NewPipeline returns an empty pipeline backed by its own actor queue
// registry.
func NewPipeline() *Pipeline {
	return &Pipeline{queues: NewQueues()}
}

// Register adds cmd to the pipeline, keeping commands sorted by descending
// Priority so higher-priority commands are always tried first.
func (p *Pipeline) Register(cmd *Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, cmd)
	sort.SliceStable(p.commands, func(i, j int) bool {
		return p.commands[i].Priority > p.commands[j].Priority
	})
}

// Dispatch matches line against the registered commands in priority order,
// trying each command's main pattern then its aliases. The first pattern
// that binds structurally is committed to: a required argument resolution
// failure routes to that command's OnError (or, if OnError is nil, its
// message is told to the actor and logged) rather than falling through to a
// lower-priority command.
// A successful match is enqueued on the actor's queue and the queue is
// drained of anything now off cooldown.
func (p *Pipeline) Dispatch(ctx *Context, actorID, line string, now time.Time) {
	p.mu.Lock()
	commands := make([]*Command, len(p.commands))
	copy(commands, p.commands)
	p.mu.Unlock()

	for _, cmd := range commands {
		args, matched, err := cmd.tryMatch(ctx, line)
		if !matched {
			continue
		}
		if err != nil {
			p.reportError(ctx, cmd, err)
			return
		}
		q := p.queues.For(actorID)
		q.Enqueue(Action{Command: cmd, Args: args, Line: line}, now)
		p.drain(ctx, q, now)
		return
	}

	p.reportError(ctx, nil, parseError("huh? that's not a command"))
}

// CancelAll drops every queued-but-not-yet-run action for actorID and
// returns the confirmation line to send back to the actor.
func (p *Pipeline) CancelAll(actorID string) string {
	n := p.queues.For(actorID).CancelAll()
	return CancelMessage(n)
}

// CancelNext drops the head queued action for actorID, if any.
func (p *Pipeline) CancelNext(actorID string) string {
	if p.queues.For(actorID).CancelOne() {
		return CancelMessage(1)
	}
	return "Nothing queued to cancel."
}

func (p *Pipeline) reportError(ctx *Context, cmd *Command, err error) {
	cmdErr, ok := err.(*Error)
	if !ok {
		cmdErr = parseError(err.Error())
	}
	if cmd != nil && cmd.OnError != nil {
		cmd.OnError(ctx, cmdErr)
		return
	}
	if ctx != nil {
		ctx.Tell(capitalizeFirst(cmdErr.Message))
	}
	fields := logrus.Fields{
		"function": "Dispatch",
		"kind":     cmdErr.Kind.String(),
	}
	if ctx != nil && ctx.Actor != nil {
		fields["actor"] = ctx.Actor.ID()
	}
	logrus.WithFields(fields).Debug(cmdErr.Message)
}

// drain runs every action at the front of q that is off cooldown as of now,
// stopping at the first action still waiting.
func (p *Pipeline) drain(ctx *Context, q *Queue, now time.Time) {
	for q.Ready(now) {
		head, ok := q.Peek()
		if !ok {
			return
		}

		cooldown := time.Duration(0)
		if head.Command.Cooldown != nil {
			cooldown = head.Command.Cooldown(ctx, head.Args)
		}

		action, ok := q.Pop(now, cooldown)
		if !ok {
			return
		}

		p.execute(ctx, action)
	}
}

func (p *Pipeline) execute(ctx *Context, action Action) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "execute",
				"command":  action.Command.Name,
				"panic":    r,
			}).Error("command execution panicked, dropping action")
		}
	}()

	if err := action.Command.Execute(ctx, action.Args); err != nil {
		p.reportError(ctx, action.Command, err)
	}
}
