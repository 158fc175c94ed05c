package command

import (
	"strconv"
	"strings"

	"mudforge/pkg/narrate"
	"mudforge/pkg/world"
)

// Context is the runtime state an argument resolver and a command's Execute
// function see: the acting mob, its current room, and the live world,
// passed explicitly rather than reached through ambient globals so tests
// can construct an isolated world per case.
//
// Deliver is the only path a command has to actors' sessions: it is given
// the lines narrate.Act (or a command's own one-off message) produced and
// is responsible for routing each to the session behind its Recipient, or
// dropping it silently if that mob has no live session (already logged
// off, an NPC). Commands never touch a session registry directly.
type Context struct {
	Actor *world.Mob
	Room  *world.Room
	World *world.World

	Deliver func(lines []narrate.Line)
}

// Tell is a convenience for a command that only needs to speak to its own
// actor, the common case for informational commands (look, abilities,
// config) and for reporting a non-fatal, non-error result line.
func (c *Context) Tell(text string) {
	if c.Deliver == nil || c.Actor == nil || text == "" {
		return
	}
	c.Deliver([]narrate.Line{{Recipient: c.Actor, Text: text, Group: narrate.GroupCommandResponse}})
}

// Value is a resolved argument: exactly one of its fields is meaningful,
// selected by the ArgSpec.Kind that produced it.
type Value struct {
	Word      string
	Number    int
	Direction world.Direction
	Entity    world.Entity
}

func resolveArg(ctx *Context, spec ArgSpec, raw string) (Value, error) {
	switch spec.Kind {
	case KindWord:
		return Value{Word: raw}, nil
	case KindText:
		return Value{Word: raw}, nil
	case KindNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, resolutionError(spec.Name + " must be a number")
		}
		return Value{Number: n}, nil
	case KindDirection:
		d, ok := world.ParseDirection(raw)
		if !ok {
			return Value{}, resolutionError("there is no exit in that direction")
		}
		return Value{Direction: d}, nil
	case KindMob, KindMobRoom:
		m, ok := findMobInRoom(ctx, raw)
		if !ok {
			return Value{}, resolutionError("you don't see that here")
		}
		return Value{Entity: m}, nil
	case KindItemInventory:
		e, ok := findInScope(ctx, raw, scopeInventory, isItemEntity)
		if !ok {
			return Value{}, resolutionError("you aren't carrying that")
		}
		return Value{Entity: e}, nil
	case KindItem:
		e, ok := findInScope(ctx, raw, scopeInventoryThenRoom, isItemEntity)
		if !ok {
			return Value{}, resolutionError("you don't see that here")
		}
		return Value{Entity: e}, nil
	case KindObjectRoom:
		e, ok := findInScope(ctx, raw, scopeRoom, anyEntity)
		if !ok {
			return Value{}, resolutionError("you don't see that here")
		}
		return Value{Entity: e}, nil
	case KindObjectInventory:
		e, ok := findInScope(ctx, raw, scopeInventory, anyEntity)
		if !ok {
			return Value{}, resolutionError("you aren't carrying that")
		}
		return Value{Entity: e}, nil
	case KindObject:
		e, ok := findInScope(ctx, raw, scopeInventoryThenRoom, anyEntity)
		if !ok {
			return Value{}, resolutionError("you don't see that here")
		}
		return Value{Entity: e}, nil
	default:
		return Value{}, resolutionError("unrecognized argument kind")
	}
}

type scope int

const (
	scopeInventory scope = iota
	scopeRoom
	scopeInventoryThenRoom
)

func isItemEntity(e world.Entity) bool {
	_, isMob := e.(*world.Mob)
	return !isMob
}

func anyEntity(world.Entity) bool { return true }

func findMobInRoom(ctx *Context, raw string) (*world.Mob, bool) {
	if ctx.Room == nil {
		return nil, false
	}
	for _, e := range ctx.Room.Contents() {
		m, ok := e.(*world.Mob)
		if !ok {
			continue
		}
		if matchesKeyword(m, raw) {
			return m, true
		}
	}
	return nil, false
}

func findInScope(ctx *Context, raw string, sc scope, accept func(world.Entity) bool) (world.Entity, bool) {
	switch sc {
	case scopeInventory:
		return searchEntities(inventoryOf(ctx.Actor), raw, accept)
	case scopeRoom:
		return searchEntities(roomContents(ctx.Room), raw, accept)
	case scopeInventoryThenRoom:
		if e, ok := searchEntities(inventoryOf(ctx.Actor), raw, accept); ok {
			return e, true
		}
		return searchEntities(roomContents(ctx.Room), raw, accept)
	default:
		return nil, false
	}
}

func inventoryOf(m *world.Mob) []world.Entity {
	if m == nil {
		return nil
	}
	return m.Inventory()
}

func roomContents(r *world.Room) []world.Entity {
	if r == nil {
		return nil
	}
	return r.Contents()
}

func searchEntities(entities []world.Entity, raw string, accept func(world.Entity) bool) (world.Entity, bool) {
	for _, e := range entities {
		if !accept(e) {
			continue
		}
		if matchesKeyword(e, raw) {
			return e, true
		}
	}
	return nil, false
}

// matchesKeyword reports whether e exposes MatchesKeyword (every concrete
// entity does, via embedded Base) and the raw token matches one of its
// keywords by case-insensitive prefix.
func matchesKeyword(e world.Entity, raw string) bool {
	type keywordMatcher interface {
		MatchesKeyword(string) bool
	}
	km, ok := e.(keywordMatcher)
	if !ok {
		return strings.EqualFold(e.Display(), raw)
	}
	return km.MatchesKeyword(raw)
}
