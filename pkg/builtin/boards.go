package builtin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mudforge/pkg/board"
	"mudforge/pkg/command"
)

func boardCommands(deps Deps) []*command.Command {
	return []*command.Command{
		boardsCommand(deps),
		boardCommand(deps),
		readCommand(deps),
		postCommand(deps),
	}
}

func boardsCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("boards", "boards")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		all := deps.Boards.All()
		if len(all) == 0 {
			return reportf(ctx, "there are no boards here.")
		}
		names := make([]string, 0, len(all))
		for _, b := range all {
			names = append(names, b.Name)
		}
		sort.Strings(names)
		ctx.Tell("Boards: " + strings.Join(names, ", "))
		return nil
	}
	return cmd
}

// boardCommand lists the messages visible to the actor on one board: every
// public post plus anything privately targeted at them, oldest first.
func boardCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("board", "board <name:word>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		b, ok := deps.Boards.Get(args["name"].Word)
		if !ok {
			return reportf(ctx, "there is no such board.")
		}
		user := ctx.Actor.Display()
		msgs := b.VisibleMessages(actionTime(), user)
		if len(msgs) == 0 {
			return reportf(ctx, "%s has no messages for you.", b.DisplayName)
		}
		var out strings.Builder
		fmt.Fprintf(&out, "%s:\r\n", b.DisplayName)
		for _, m := range msgs {
			mark := " "
			if b.HasRead(m.ID, user) {
				mark = "*"
			}
			fmt.Fprintf(&out, "%s[%d] %s - %s\r\n", mark, m.ID, m.Author, m.Subject)
		}
		ctx.Tell(strings.TrimRight(out.String(), "\r\n"))
		return nil
	}
	return cmd
}

func readCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("read", "read <name:word> <id:number>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		b, ok := deps.Boards.Get(args["name"].Word)
		if !ok {
			return reportf(ctx, "there is no such board.")
		}
		id := args["id"].Number
		user := ctx.Actor.Display()
		var found *boardMessage
		for _, m := range b.VisibleMessages(actionTime(), user) {
			if m.ID == id {
				found = m
				break
			}
		}
		if found == nil {
			return reportf(ctx, "there's no message %d there for you.", id)
		}
		if err := b.MarkRead(id, user); err != nil {
			return command.ResourceError("that message is gone", err)
		}
		ctx.Tell(fmt.Sprintf("[%d] %s - %s\r\n%s", found.ID, found.Author, found.Subject, found.Content))
		return nil
	}
	return cmd
}

// boardMessage aliases board.Message so this file reads naturally without
// a stutter on every reference.
type boardMessage = board.Message

// postCommand posts message to a board; since the pattern grammar allows
// only one trailing free-text capture per command, the post's subject is
// derived from the message body rather than captured separately.
func postCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("post", "post <name:word> <message:text>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		b, ok := deps.Boards.Get(args["name"].Word)
		if !ok {
			return reportf(ctx, "there is no such board.")
		}
		content := args["message"].Word
		subject := subjectFrom(content)
		_, err := b.CreateMessage(ctx.Actor.Display(), board.PrivilegeAll, subject, content, nil, actionTime())
		if err != nil {
			if err == board.ErrPermissionDenied {
				return command.PermissionError("you aren't allowed to post there")
			}
			return command.ResourceError("couldn't post that", err)
		}
		return reportf(ctx, "Posted to %s.", b.DisplayName)
	}
	return cmd
}

// subjectFrom derives a short subject line from a posted message's body:
// up to the first sentence-ending punctuation, or the first 40 characters.
func subjectFrom(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.IndexAny(content, ".!?\n"); i > 0 {
		content = content[:i]
	}
	if len(content) > 40 {
		content = content[:40]
	}
	if content == "" {
		return "(No subject)"
	}
	return content
}

// actionTime stands in for time.Now in every board call site in this file:
// wall-clock time the scripted tests in this package can't hold fixed, so
// the package always asks the clock rather than threading a caller-supplied
// time the way pkg/scheduler's tick loop does.
func actionTime() time.Time {
	return time.Now()
}
