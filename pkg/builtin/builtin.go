// Package builtin registers the core command surface against a
// command.Pipeline: movement, inventory manipulation, combat initiation,
// character introspection, and message boards. These are the concrete game
// commands the core's grammar, resolver, and queue exist to carry; content
// packs may register more of their own on the same pipeline.
package builtin

import (
	"fmt"

	"mudforge/pkg/board"
	"mudforge/pkg/command"
	"mudforge/pkg/registry"
	"mudforge/pkg/world"
)

// Deps bundles the shared registries every built-in command needs. All
// fields are read-mostly after boot except Boards, which mutates on message
// activity.
type Deps struct {
	World  *world.World
	Reg    *registry.World
	Boards *board.Registry
}

// Register adds every built-in command to p. Call once at boot, after Deps
// has been fully populated by the package loader.
func Register(p *command.Pipeline, deps Deps) {
	for _, cmd := range movementCommands(deps) {
		p.Register(cmd)
	}
	for _, cmd := range itemCommands(deps) {
		p.Register(cmd)
	}
	for _, cmd := range combatCommands(deps) {
		p.Register(cmd)
	}
	for _, cmd := range characterCommands(deps) {
		p.Register(cmd)
	}
	for _, cmd := range helpCommands(deps) {
		p.Register(cmd)
	}
	for _, cmd := range boardCommands(deps) {
		p.Register(cmd)
	}
}

// roomOf returns ctx.Actor's current room, or nil if the actor isn't placed
// in one (not yet spawned, or mid-teleport).
func roomOf(ctx *command.Context) (*world.Room, bool) {
	if ctx.Actor == nil {
		return nil, false
	}
	r, ok := ctx.Actor.Location().(*world.Room)
	return r, ok
}

// reportf is a small convenience for an Execute function that only needs to
// tell its own actor something and return no error.
func reportf(ctx *command.Context, format string, args ...interface{}) error {
	ctx.Tell(fmt.Sprintf(format, args...))
	return nil
}

// asMob narrows a resolved KindMob entity back to *world.Mob.
func asMob(e world.Entity) (*world.Mob, bool) {
	m, ok := e.(*world.Mob)
	return m, ok
}
