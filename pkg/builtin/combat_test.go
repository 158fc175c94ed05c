package builtin

import (
	"strings"
	"testing"

	"mudforge/pkg/command"
	"mudforge/pkg/world"
)

func TestKillCommandSetsTargetAndNarrates(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	goblin := newTestMob("goblin")
	if err := world.Add(room, actor); err != nil {
		t.Fatalf("Add actor: %v", err)
	}
	if err := world.Add(room, goblin); err != nil {
		t.Fatalf("Add goblin: %v", err)
	}
	ctx, delivered := newTestContext(actor, room)

	cmd := killCommand()
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"target": {Entity: goblin}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if actor.TargetID() != goblin.ID() {
		t.Fatalf("TargetID() = %q, want %q", actor.TargetID(), goblin.ID())
	}
	if len(*delivered) == 0 {
		t.Fatalf("expected combat narration to be delivered")
	}
}

func TestKillCommandRejectsSelf(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	if err := world.Add(room, actor); err != nil {
		t.Fatalf("Add actor: %v", err)
	}
	ctx, _ := newTestContext(actor, room)

	cmd := killCommand()
	err := execCommand(t, cmd, ctx, map[string]command.Value{"target": {Entity: actor}})
	if err == nil {
		t.Fatalf("expected an error attacking yourself")
	}
	if actor.TargetID() != "" {
		t.Fatalf("expected no target set")
	}
}

func TestKillCommandRejectsAlreadyDeadTarget(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	goblin := newTestMob("goblin")
	goblin.State.Dead = true
	if err := world.Add(room, actor); err != nil {
		t.Fatalf("Add actor: %v", err)
	}
	if err := world.Add(room, goblin); err != nil {
		t.Fatalf("Add goblin: %v", err)
	}
	ctx, _ := newTestContext(actor, room)

	cmd := killCommand()
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"target": {Entity: goblin}}); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
	if actor.TargetID() != "" {
		t.Fatalf("expected no target set against an already-dead mob")
	}
}

func TestSayCommandBroadcastsToRoom(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	if err := world.Add(room, actor); err != nil {
		t.Fatalf("Add actor: %v", err)
	}
	ctx, delivered := newTestContext(actor, room)

	cmd := sayCommand()
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"message": {Word: "hello"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(*delivered) != 1 {
		t.Fatalf("expected one line (no other mobs in the room), got %d", len(*delivered))
	}
	if !strings.Contains((*delivered)[0].Text, "hello") {
		t.Fatalf("text = %q, want the spoken message", (*delivered)[0].Text)
	}
}

func TestEmoteCommandBroadcastsToRoom(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	if err := world.Add(room, actor); err != nil {
		t.Fatalf("Add actor: %v", err)
	}
	ctx, delivered := newTestContext(actor, room)

	cmd := emoteCommand()
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"action": {Word: "waves"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "waves") {
		t.Fatalf("text = %q, want the emote text", text)
	}
}
