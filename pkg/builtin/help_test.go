package builtin

import (
	"strings"
	"testing"

	"mudforge/pkg/command"
	"mudforge/pkg/registry"
)

func TestHelpCommandListsTopicsWithNoArgument(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	deps.Reg.Helpfiles.Add(&registry.Helpfile{Topic: "movement", Body: "Use go <direction> to move."})
	deps.Reg.Helpfiles.Add(&registry.Helpfile{Topic: "combat", Body: "Use kill <target> to fight."})

	ctx, delivered := newTestContext(actor, room)
	cmd := helpCommand(deps)
	if err := execCommand(t, cmd, ctx, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(*delivered) != 1 {
		t.Fatalf("expected one reply line, got %d", len(*delivered))
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "movement") || !strings.Contains(text, "combat") {
		t.Fatalf("text = %q, want both topics listed", text)
	}
}

func TestHelpCommandReportsNoTopicsWhenEmpty(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	ctx, _ := newTestContext(actor, room)
	cmd := helpCommand(deps)
	if err := execCommand(t, cmd, ctx, nil); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}

func TestHelpCommandRendersTopicByAlias(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	deps.Reg.Helpfiles.Add(&registry.Helpfile{
		Topic:   "movement",
		Aliases: []string{"move", "walking"},
		Body:    "Use go <direction> to move.",
		SeeAlso: []string{"combat"},
	})

	ctx, delivered := newTestContext(actor, room)
	cmd := helpCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"topic": {Word: "walking"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "Use go <direction> to move.") {
		t.Fatalf("text = %q, want the helpfile body", text)
	}
	if !strings.Contains(text, "See also: combat") {
		t.Fatalf("text = %q, want the see-also line", text)
	}
}

func TestHelpCommandReportsUnknownTopic(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	ctx, _ := newTestContext(actor, room)
	cmd := helpCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"topic": {Word: "nonesuch"}}); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}

func TestHelpSearchCommandMatchesBody(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	deps.Reg.Helpfiles.Add(&registry.Helpfile{Topic: "movement", Body: "Use go <direction> to move around the world."})
	deps.Reg.Helpfiles.Add(&registry.Helpfile{Topic: "combat", Body: "Use kill <target> to fight."})

	ctx, delivered := newTestContext(actor, room)
	cmd := helpSearchCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"query": {Word: "move"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "movement") {
		t.Fatalf("text = %q, want movement topic to match", text)
	}
}

func TestHelpSearchCommandReportsNoMatches(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestDeps()
	ctx, _ := newTestContext(actor, room)
	cmd := helpSearchCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"query": {Word: "nonesuch"}}); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}
