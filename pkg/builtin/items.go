package builtin

import (
	"fmt"

	"mudforge/pkg/command"
	"mudforge/pkg/narrate"
	"mudforge/pkg/world"
)

func itemCommands(deps Deps) []*command.Command {
	return []*command.Command{
		getCommand(),
		dropCommand(),
		putCommand(),
		giveCommand(),
	}
}

// getCommand moves an item from the actor's room into its inventory. It
// never touches a mob: KindItem only resolves non-mob entities.
func getCommand() *command.Command {
	cmd := command.NewCommand("get", "g~et <item:item>", "take <item:item>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		item := args["item"].Entity
		room, ok := roomOf(ctx)
		if !ok || item.Location() != world.Entity(room) {
			return reportf(ctx, "you don't see that here.")
		}
		world.Remove(item)
		ctx.Actor.AddToInventory(item)
		room2, _ := roomOf(ctx)
		ctx.Deliver(narrate.Act(ctx.Actor, nil, room2, narrate.Templates{
			User: fmt.Sprintf("You get %s.", item.Display()),
			Room: fmt.Sprintf("{User} gets %s.", item.Display()),
		}, narrate.Options{Group: narrate.GroupAction}))
		return nil
	}
	return cmd
}

func dropCommand() *command.Command {
	cmd := command.NewCommand("drop", "dr~op <item:item@inventory>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		item := args["item"].Entity
		room, ok := roomOf(ctx)
		if !ok {
			return reportf(ctx, "there is nowhere to drop that.")
		}
		removed, ok := ctx.Actor.RemoveFromInventory(item.ID())
		if !ok {
			return reportf(ctx, "you aren't carrying that.")
		}
		if err := world.Add(room, removed); err != nil {
			ctx.Actor.AddToInventory(removed)
			return command.StateError("there's no room here for that")
		}
		ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
			User: fmt.Sprintf("You drop %s.", removed.Display()),
			Room: fmt.Sprintf("{User} drops %s.", removed.Display()),
		}, narrate.Options{Group: narrate.GroupAction}))
		return nil
	}
	return cmd
}

// putCommand moves a carried item into a carried or visible container. The
// container must itself resolve as an item (KindItem), and must actually
// be a container per Item.IsContainer; capacity is enforced by world.Add.
func putCommand() *command.Command {
	cmd := command.NewCommand("put", "put <item:item@inventory> in <container:item>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		item := args["item"].Entity
		containerEnt := args["container"].Entity
		if containerEnt.ID() == item.ID() {
			return command.StateError("you can't put something inside itself")
		}
		container, ok := containerEnt.(*world.Item)
		if !ok || !container.IsContainer() {
			return reportf(ctx, "you can't put anything in that.")
		}
		removed, ok := ctx.Actor.RemoveFromInventory(item.ID())
		if !ok {
			return reportf(ctx, "you aren't carrying that.")
		}
		if err := world.Add(container, removed); err != nil {
			ctx.Actor.AddToInventory(removed)
			if err == world.ErrCapacity {
				return command.StateError(fmt.Sprintf("%s won't hold any more", container.Display()))
			}
			return command.StateError("you can't put that there")
		}
		room, _ := roomOf(ctx)
		ctx.Deliver(narrate.Act(ctx.Actor, nil, room, narrate.Templates{
			User: fmt.Sprintf("You put %s in %s.", removed.Display(), container.Display()),
			Room: fmt.Sprintf("{User} puts %s in %s.", removed.Display(), container.Display()),
		}, narrate.Options{Group: narrate.GroupAction}))
		return nil
	}
	return cmd
}

// giveCommand covers the item-handoff and gold-handoff forms described for
// the verb; the grammar has no alternation, so each shape is a separate
// alias pattern sharing the split by prefix ("give all", "give <n> gold",
// "give <item>") against the same two handlers.
func giveCommand() *command.Command {
	// "all" and "<n> gold" must be tried before the bare item patterns:
	// a generic <item> hole matches any single token structurally, so
	// listing it first would swallow "all" as a literal item keyword and
	// never reach the intended gold handling.
	cmd := command.NewCommand("give",
		"give all to <target:mob>",
		"give all <target:mob>",
		"give <amount:number> gold to <target:mob>",
		"give <amount:number> gold <target:mob>",
		"give <item:item@inventory> to <target:mob>",
		"give <item:item@inventory> <target:mob>",
	)
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		target, ok := asMob(args["target"].Entity)
		if !ok {
			return reportf(ctx, "you can't give anything to that.")
		}
		if target.ID() == ctx.Actor.ID() {
			return command.StateError("you already have that")
		}

		if amtVal, ok := args["amount"]; ok {
			return giveGold(ctx, target, amtVal.Number)
		}
		if itemVal, ok := args["item"]; ok {
			return giveItem(ctx, target, itemVal.Entity)
		}
		return giveAllGold(ctx, target)
	}
	return cmd
}

func giveGold(ctx *command.Context, target *world.Mob, amount int) error {
	if amount <= 0 {
		return command.StateError("give how much gold?")
	}
	if !ctx.Actor.SpendGold(amount) {
		return reportf(ctx, "you don't have that much gold.")
	}
	target.AddGold(amount)
	room, _ := roomOf(ctx)
	ctx.Deliver(narrate.Act(ctx.Actor, target, room, narrate.Templates{
		User:   fmt.Sprintf("You give %d gold to {target}.", amount),
		Target: fmt.Sprintf("{User} gives you %d gold.", amount),
		Room:   "{User} gives {target} some gold.",
	}, narrate.Options{Group: narrate.GroupAction}))
	return nil
}

func giveAllGold(ctx *command.Context, target *world.Mob) error {
	amount := ctx.Actor.Gold()
	if amount <= 0 {
		return reportf(ctx, "you don't have any gold.")
	}
	return giveGold(ctx, target, amount)
}

func giveItem(ctx *command.Context, target *world.Mob, item world.Entity) error {
	removed, ok := ctx.Actor.RemoveFromInventory(item.ID())
	if !ok {
		return reportf(ctx, "you aren't carrying that.")
	}
	target.AddToInventory(removed)
	room, _ := roomOf(ctx)
	ctx.Deliver(narrate.Act(ctx.Actor, target, room, narrate.Templates{
		User:   fmt.Sprintf("You give %s to {target}.", removed.Display()),
		Target: fmt.Sprintf("{User} gives you %s.", removed.Display()),
		Room:   fmt.Sprintf("{User} gives {target} %s.", removed.Display()),
	}, narrate.Options{Group: narrate.GroupAction}))
	return nil
}
