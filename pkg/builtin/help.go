package builtin

import (
	"fmt"
	"strings"

	"mudforge/pkg/command"
	"mudforge/pkg/registry"
)

func helpCommands(deps Deps) []*command.Command {
	return []*command.Command{
		helpCommand(deps),
		helpSearchCommand(deps),
	}
}

func helpCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("help", "help <topic:word?>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		topicVal, ok := args["topic"]
		if !ok {
			topics := deps.Reg.Helpfiles.Topics()
			if len(topics) == 0 {
				return reportf(ctx, "there is no help available yet.")
			}
			ctx.Tell("Help topics: " + strings.Join(topics, ", "))
			return nil
		}
		hf, ok := deps.Reg.Helpfiles.Lookup(topicVal.Word)
		if !ok {
			return reportf(ctx, "there is no help on that topic.")
		}
		ctx.Tell(renderHelpfile(hf))
		return nil
	}
	return cmd
}

func helpSearchCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("help search", "help search <query:text>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		query := args["query"].Word
		hits := deps.Reg.Helpfiles.Search(query)
		if len(hits) == 0 {
			return reportf(ctx, "no help topics match %q.", query)
		}
		topics := make([]string, 0, len(hits))
		for _, hf := range hits {
			topics = append(topics, hf.Topic)
		}
		ctx.Tell("Matching topics: " + strings.Join(topics, ", "))
		return nil
	}
	return cmd
}

func renderHelpfile(hf *registry.Helpfile) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\r\n", hf.Topic))
	b.WriteString(hf.Body)
	if len(hf.SeeAlso) > 0 {
		b.WriteString("\r\nSee also: " + strings.Join(hf.SeeAlso, ", "))
	}
	return b.String()
}
