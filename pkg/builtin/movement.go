package builtin

import (
	"fmt"
	"strings"

	"mudforge/pkg/command"
	"mudforge/pkg/narrate"
	"mudforge/pkg/world"
)

func movementCommands(deps Deps) []*command.Command {
	return []*command.Command{
		lookCommand(),
		goCommand(deps),
		recallCommand(deps),
		fleeCommand(deps),
	}
}

func lookCommand() *command.Command {
	cmd := command.NewCommand("look", "l~ook <direction:direction?>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		room, ok := roomOf(ctx)
		if !ok {
			return reportf(ctx, "you are nowhere.")
		}
		if dir, ok := args["direction"]; ok {
			return reportf(ctx, "%s", peekDirection(room, dir.Direction))
		}
		ctx.Tell(describeRoom(room, ctx.Actor))
		return nil
	}
	return cmd
}

func peekDirection(room *world.Room, dir world.Direction) string {
	if !room.Exits.Allows(dir) {
		if _, ok := room.Gateways[dir]; !ok {
			return "You see nothing of interest that way."
		}
	}
	return fmt.Sprintf("You see an exit to the %s.", dir)
}

// describeRoom renders a room's display name, long description, visible
// exits, and contents (everything but the looking mob itself), matching
// the shape of the teacher's room-snapshot responses generalized to text.
func describeRoom(room *world.Room, viewer *world.Mob) string {
	var b strings.Builder
	b.WriteString(room.Display())
	b.WriteString("\r\n")
	if d := room.LongDescription(); d != "" {
		b.WriteString(d)
		b.WriteString("\r\n")
	}

	var exits []string
	for _, d := range world.AllDirections() {
		if room.Exits.Allows(d) {
			exits = append(exits, d.String())
			continue
		}
		if _, ok := room.Gateways[d]; ok {
			exits = append(exits, d.String())
		}
	}
	if len(exits) == 0 {
		b.WriteString("Exits: none.\r\n")
	} else {
		b.WriteString("Exits: " + strings.Join(exits, ", ") + ".\r\n")
	}

	for _, e := range room.Contents() {
		if e.ID() == viewer.ID() {
			continue
		}
		b.WriteString(e.Display())
		b.WriteString("\r\n")
	}
	return strings.TrimRight(b.String(), "\r\n")
}

// goCommand handles both the explicit "go <direction>" form and bare
// direction words ("n", "north", ...), sharing one handler: structurally
// they differ only in whether the literal "go" prefixes the direction
// token, which the alias pattern captures.
func goCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("go", "go <direction:direction>", "<direction:direction>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		dir := args["direction"].Direction
		if !ctx.Actor.CanStep(dir) {
			return command.StateError("there is no exit in that direction")
		}
		src, _ := roomOf(ctx)
		err := deps.World.Step(ctx.Actor, dir, func(room *world.Room, d world.Direction) {
			lines := narrate.Act(ctx.Actor, nil, room, narrate.Templates{
				Room: fmt.Sprintf("{User} leaves %s.", d),
			}, narrate.Options{Group: narrate.GroupAction})
			ctx.Deliver(lines)
		}, func(room *world.Room, d world.Direction) {
			lines := narrate.Act(ctx.Actor, nil, room, narrate.Templates{
				Room: fmt.Sprintf("{User} arrives from the %s.", d.Reverse()),
			}, narrate.Options{Group: narrate.GroupAction})
			ctx.Deliver(lines)
		})
		if err != nil {
			return command.StateError(err.Error())
		}
		dst, _ := ctx.Actor.Location().(*world.Room)
		if dst != nil && dst != src {
			ctx.Tell(describeRoom(dst, ctx.Actor))
		}
		return nil
	}
	return cmd
}

func recallCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("recall", "rec~all")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		ref, ok := deps.Reg.Locations.Get("recall")
		if !ok {
			return reportf(ctx, "there is nowhere to recall to.")
		}
		dst, ok := deps.World.ResolveRoom(ref)
		if !ok {
			return reportf(ctx, "the recall point no longer exists.")
		}
		src, _ := roomOf(ctx)
		err := deps.World.Move(ctx.Actor, world.MoveOptions{
			Target: ref,
			PostExit: func(room *world.Room) {
				if room == nil {
					return
				}
				ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
					Room: "{User} vanishes in a flash of light.",
				}, narrate.Options{Group: narrate.GroupAction}))
			},
			PostEnter: func(room *world.Room) {
				ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
					Room: "{User} appears in a flash of light.",
				}, narrate.Options{Group: narrate.GroupAction}))
			},
		})
		if err != nil {
			return command.StateError(err.Error())
		}
		ctx.Actor.ClearTarget()
		if dst != src {
			ctx.Tell(describeRoom(dst, ctx.Actor))
		}
		return nil
	}
	return cmd
}

func fleeCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("flee", "fl~ee")
	cmd.Priority = 10
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		if ctx.Actor.TargetID() == "" {
			return command.StateError("you can only flee when in combat")
		}
		room, ok := roomOf(ctx)
		if !ok {
			return reportf(ctx, "there is nowhere to flee to.")
		}
		for _, d := range world.AllDirections() {
			if !ctx.Actor.CanStep(d) {
				continue
			}
			ctx.Actor.ClearTarget()
			err := deps.World.Step(ctx.Actor, d, func(r *world.Room, dd world.Direction) {
				ctx.Deliver(narrate.Act(ctx.Actor, nil, r, narrate.Templates{
					Room: "{User} flees!",
				}, narrate.Options{Group: narrate.GroupCombat}))
			}, func(r *world.Room, dd world.Direction) {
				ctx.Deliver(narrate.Act(ctx.Actor, nil, r, narrate.Templates{
					Room: "{User} arrives, fleeing in terror.",
				}, narrate.Options{Group: narrate.GroupCombat}))
			})
			if err != nil {
				return command.StateError(err.Error())
			}
			dst, _ := ctx.Actor.Location().(*world.Room)
			if dst != room {
				ctx.Tell(describeRoom(dst, ctx.Actor))
			}
			return nil
		}
		return reportf(ctx, "you have nowhere to flee to!")
	}
	return cmd
}
