package builtin

import (
	"fmt"

	"mudforge/pkg/command"
	"mudforge/pkg/narrate"
)

func combatCommands(deps Deps) []*command.Command {
	return []*command.Command{
		killCommand(),
		sayCommand(),
		emoteCommand(),
	}
}

// killCommand sets the actor's combat target; the scheduler's combat tick
// resolves rounds against it until one side dies or the target is cleared
// (flee, recall, death). It does not itself deal damage.
func killCommand() *command.Command {
	cmd := command.NewCommand("kill", "k~ill <target:mob>", "att~ack <target:mob>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		target := args["target"].Entity
		mob, ok := asMob(target)
		if !ok {
			return reportf(ctx, "you can't fight that.")
		}
		if mob.ID() == ctx.Actor.ID() {
			return command.StateError("you can't attack yourself")
		}
		if mob.IsDead() {
			return reportf(ctx, "%s is already dead.", mob.Display())
		}
		ctx.Actor.SetTarget(mob.ID())
		room, _ := roomOf(ctx)
		ctx.Deliver(narrate.Act(ctx.Actor, mob, room, narrate.Templates{
			User:   "You attack {target}!",
			Target: "{User} attacks you!",
			Room:   "{User} attacks {target}!",
		}, narrate.Options{Group: narrate.GroupCombat}))
		return nil
	}
	return cmd
}

func sayCommand() *command.Command {
	cmd := command.NewCommand("say", "say <message:text>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		room, _ := roomOf(ctx)
		msg := args["message"].Word
		ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
			User: fmt.Sprintf("You say, \"%s\"", msg),
			Room: fmt.Sprintf("{User} says, \"%s\"", msg),
		}, narrate.Options{Group: narrate.GroupChannels}))
		return nil
	}
	return cmd
}

func emoteCommand() *command.Command {
	cmd := command.NewCommand("emote", "em~ote <action:text>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		room, _ := roomOf(ctx)
		action := args["action"].Word
		ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
			User: fmt.Sprintf("You %s", action),
			Room: fmt.Sprintf("{User} %s", action),
		}, narrate.Options{Group: narrate.GroupChannels}))
		return nil
	}
	return cmd
}
