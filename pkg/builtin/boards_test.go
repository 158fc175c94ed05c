package builtin

import (
	"strings"
	"testing"
	"time"

	"mudforge/pkg/board"
	"mudforge/pkg/command"
)

func newTestBoardDeps(t *testing.T) Deps {
	t.Helper()
	reg, err := board.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	deps := newTestDeps()
	deps.Boards = reg
	return deps
}

func TestBoardsCommandListsBoardNames(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	deps.Boards.Put(board.New("news", "News", "server news", true, 0, board.PrivilegeAll))
	deps.Boards.Put(board.New("gossip", "Gossip", "player chatter", true, 0, board.PrivilegeAll))

	ctx, delivered := newTestContext(actor, room)
	cmd := boardsCommand(deps)
	if err := execCommand(t, cmd, ctx, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "news") || !strings.Contains(text, "gossip") {
		t.Fatalf("text = %q, want both board names", text)
	}
}

func TestBoardsCommandReportsNoneWhenEmpty(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	ctx, _ := newTestContext(actor, room)
	cmd := boardsCommand(deps)
	if err := execCommand(t, cmd, ctx, nil); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}

func TestPostAndReadRoundTrip(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	deps.Boards.Put(board.New("news", "News", "server news", true, 0, board.PrivilegeAll))

	postCtx, _ := newTestContext(actor, room)
	post := postCommand(deps)
	if err := execCommand(t, post, postCtx, map[string]command.Value{
		"name":    {Word: "news"},
		"message": {Word: "The keep has fallen. Defend the gate!"},
	}); err != nil {
		t.Fatalf("post Execute: %v", err)
	}

	b, _ := deps.Boards.Get("news")
	msgs := b.VisibleMessages(time.Now(), actor.Display())
	if len(msgs) != 1 {
		t.Fatalf("expected one message posted, got %d", len(msgs))
	}
	if msgs[0].Subject != "The keep has fallen" {
		t.Fatalf("Subject = %q, want derived first-sentence subject", msgs[0].Subject)
	}

	readCtx, delivered := newTestContext(actor, room)
	read := readCommand(deps)
	if err := execCommand(t, read, readCtx, map[string]command.Value{
		"name": {Word: "news"},
		"id":   {Number: msgs[0].ID},
	}); err != nil {
		t.Fatalf("read Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "Defend the gate!") {
		t.Fatalf("text = %q, want message content", text)
	}
	if !b.HasRead(msgs[0].ID, actor.Display()) {
		t.Fatalf("expected message marked read")
	}
}

func TestBoardCommandShowsUnreadMarker(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	b := board.New("news", "News", "server news", true, 0, board.PrivilegeAll)
	deps.Boards.Put(b)
	if _, err := b.CreateMessage("system", board.PrivilegeSystem, "Welcome", "Welcome to the realm.", nil, time.Now()); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	ctx, delivered := newTestContext(actor, room)
	cmd := boardCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"name": {Word: "news"}}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	text := (*delivered)[0].Text
	if !strings.Contains(text, "Welcome") {
		t.Fatalf("text = %q, want the subject listed", text)
	}
	if !strings.Contains(text, " [1] system - Welcome") {
		t.Fatalf("text = %q, want the unread marker (blank) before the id", text)
	}
}

func TestBoardCommandReportsUnknownBoard(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	ctx, _ := newTestContext(actor, room)
	cmd := boardCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"name": {Word: "nonesuch"}}); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}

func TestReadCommandReportsMissingMessage(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	deps.Boards.Put(board.New("news", "News", "server news", true, 0, board.PrivilegeAll))
	ctx, _ := newTestContext(actor, room)
	cmd := readCommand(deps)
	if err := execCommand(t, cmd, ctx, map[string]command.Value{"name": {Word: "news"}, "id": {Number: 99}}); err != nil {
		t.Fatalf("Execute should report, not error: %v", err)
	}
}

func TestPostCommandRejectsInsufficientPrivilege(t *testing.T) {
	room := newTestRoom()
	actor := newTestMob("hero")
	deps := newTestBoardDeps(t)
	deps.Boards.Put(board.New("announcements", "Announcements", "staff only", true, 0, board.PrivilegeSystem))

	ctx, _ := newTestContext(actor, room)
	cmd := postCommand(deps)
	err := execCommand(t, cmd, ctx, map[string]command.Value{
		"name":    {Word: "announcements"},
		"message": {Word: "Hello."},
	})
	if err == nil {
		t.Fatalf("expected a permission error")
	}
	cmdErr, ok := err.(*command.Error)
	if !ok || cmdErr.Kind != command.ErrKindPermission {
		t.Fatalf("err = %#v, want a permission error", err)
	}
}

func TestSubjectFromDerivesFirstSentenceOrTruncates(t *testing.T) {
	if got := subjectFrom("Hello there. More text follows."); got != "Hello there" {
		t.Errorf("subjectFrom = %q, want %q", got, "Hello there")
	}
	long := strings.Repeat("a", 60)
	if got := subjectFrom(long); len(got) != 40 {
		t.Errorf("len(subjectFrom(long)) = %d, want 40", len(got))
	}
	if got := subjectFrom("   "); got != "(No subject)" {
		t.Errorf("subjectFrom(blank) = %q, want placeholder", got)
	}
}
