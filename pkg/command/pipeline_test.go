package command

import (
	"testing"
	"time"

	"mudforge/pkg/world"
)

func TestPipelineDispatchExecutesImmediatelyWhenNoCooldown(t *testing.T) {
	p := NewPipeline()
	var ran []string
	cmd := NewCommand("look", "look")
	cmd.Execute = func(ctx *Context, args map[string]Value) error {
		ran = append(ran, "look")
		return nil
	}
	p.Register(cmd)

	p.Dispatch(&Context{}, "alice", "look", time.Now())

	if len(ran) != 1 {
		t.Fatalf("ran = %v, want one execution", ran)
	}
}

func TestPipelineDispatchPrefersHigherPriorityCommand(t *testing.T) {
	p := NewPipeline()
	var ran string

	normal := NewCommand("say", "say <message:text>")
	normal.Execute = func(ctx *Context, args map[string]Value) error {
		ran = "say"
		return nil
	}
	urgent := NewCommand("shout", "say <message:text>")
	urgent.Priority = 10
	urgent.Execute = func(ctx *Context, args map[string]Value) error {
		ran = "shout"
		return nil
	}

	p.Register(normal)
	p.Register(urgent)

	p.Dispatch(&Context{}, "alice", "say hello", time.Now())

	if ran != "shout" {
		t.Fatalf("ran = %q, want shout (higher priority)", ran)
	}
}

func TestPipelineDispatchRoutesResolutionFailureToOnError(t *testing.T) {
	p := NewPipeline()
	cmd := NewCommand("get", "get <item:item>")
	var executed bool
	var reported *Error
	cmd.Execute = func(ctx *Context, args map[string]Value) error {
		executed = true
		return nil
	}
	cmd.OnError = func(ctx *Context, err error) {
		reported, _ = err.(*Error)
	}
	p.Register(cmd)

	room := newResolveRoom()
	p.Dispatch(&Context{Room: room}, "alice", "get sword", time.Now())

	if executed {
		t.Fatalf("expected Execute not to run when a required argument fails to resolve")
	}
	if reported == nil {
		t.Fatalf("expected OnError to receive a command error")
	}
	if reported.Kind != ErrKindResolution {
		t.Fatalf("reported.Kind = %v, want resolution error", reported.Kind)
	}
}

func TestPipelineDispatchWithNoMatchReportsParseError(t *testing.T) {
	p := NewPipeline()
	cmd := NewCommand("look", "look")
	var executed bool
	cmd.Execute = func(ctx *Context, args map[string]Value) error {
		executed = true
		return nil
	}
	p.Register(cmd)

	p.Dispatch(&Context{}, "alice", "xyzzy", time.Now())

	if executed {
		t.Fatalf("expected no command to execute for an unmatched line")
	}
}

func TestPipelineDispatchQueuesBehindCooldownAndRunsOnNextDrain(t *testing.T) {
	p := NewPipeline()
	var runs int
	attack := NewCommand("attack", "kill <target:mob>")
	attack.Cooldown = func(ctx *Context, args map[string]Value) time.Duration {
		return 2 * time.Second
	}
	attack.Execute = func(ctx *Context, args map[string]Value) error {
		runs++
		return nil
	}
	p.Register(attack)

	room := newResolveRoom()
	goblin := newResolveMob("goblin")
	if err := world.Add(room, goblin); err != nil {
		t.Fatalf("world.Add: %v", err)
	}
	ctx := &Context{Room: room}

	now := time.Now()
	p.Dispatch(ctx, "alice", "kill goblin", now)
	if runs != 1 {
		t.Fatalf("runs = %d, want 1 after first dispatch", runs)
	}

	p.Dispatch(ctx, "alice", "kill goblin", now.Add(time.Second))
	if runs != 1 {
		t.Fatalf("runs = %d, want still 1 (queued behind cooldown)", runs)
	}

	q := p.queues.For("alice")
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 queued action waiting on cooldown", q.Len())
	}

	p.Dispatch(ctx, "alice", "kill goblin", now.Add(3*time.Second))
	if runs != 2 {
		t.Fatalf("runs = %d, want 2 once cooldown elapses and the queue drains", runs)
	}
}

func TestPipelineCancelAllReportsCount(t *testing.T) {
	p := NewPipeline()
	attack := NewCommand("attack", "kill <target:mob>")
	attack.Cooldown = func(ctx *Context, args map[string]Value) time.Duration {
		return 10 * time.Second
	}
	attack.Execute = func(ctx *Context, args map[string]Value) error { return nil }
	p.Register(attack)

	room := newResolveRoom()
	goblin := newResolveMob("goblin")
	if err := world.Add(room, goblin); err != nil {
		t.Fatalf("world.Add: %v", err)
	}
	ctx := &Context{Room: room}

	now := time.Now()
	p.Dispatch(ctx, "alice", "kill goblin", now)
	p.Dispatch(ctx, "alice", "kill goblin", now.Add(time.Second))
	p.Dispatch(ctx, "alice", "kill goblin", now.Add(2*time.Second))

	if got := p.CancelAll("alice"); got != "Cancelled 2 queued actions." {
		t.Fatalf("CancelAll() = %q, want %q", got, "Cancelled 2 queued actions.")
	}
}

func TestPipelineDispatchDirectionResolutionFailureReportsNoExit(t *testing.T) {
	p := NewPipeline()
	move := NewCommand("move", "<direction:direction>")
	var reported *Error
	move.Execute = func(ctx *Context, args map[string]Value) error { return nil }
	move.OnError = func(ctx *Context, err error) {
		reported, _ = err.(*Error)
	}
	p.Register(move)

	p.Dispatch(&Context{}, "alice", "sideways", time.Now())

	if reported == nil || reported.Message != "there is no exit in that direction" {
		t.Fatalf("reported = %#v, want the no-exit message", reported)
	}
}
