package world

import (
	"fmt"
	"sync"
)

// World owns every dungeon and provides the movement/equip/ability
// operations that mutate shared state. A single World is meant to be owned
// by one world-lane scheduler (see pkg/scheduler); World itself only
// guards its own maps, not cross-entity invariants — callers in the world
// lane are expected to serialize all mutating calls.
type World struct {
	mu          sync.RWMutex
	dungeons    map[string]*Dungeon
	mobs        map[string]*Mob
	shopkeepers map[string]*Shopkeeper

	// onTopologyChange, if set, is invoked after AddDungeon and
	// RemoveDungeon so that a path cache can invalidate itself. See
	// pkg/pathfind. Edits to a Room's Exits or Gateways and Dungeon
	// PlaceRoom/RemoveRoom do not invoke it.
	onTopologyChange func()
}

// NewWorld constructs an empty world.
func NewWorld() *World {
	return &World{
		dungeons:    make(map[string]*Dungeon),
		mobs:        make(map[string]*Mob),
		shopkeepers: make(map[string]*Shopkeeper),
	}
}

// OnTopologyChange registers a callback fired after AddDungeon and
// RemoveDungeon. Changes made directly to a Room's exits or gateways, or to
// a Dungeon's rooms, do not fire it.
func (w *World) OnTopologyChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTopologyChange = fn
}

func (w *World) notifyTopologyChange() {
	w.mu.RLock()
	fn := w.onTopologyChange
	w.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// AddDungeon registers a dungeon by ID, refusing a duplicate.
func (w *World) AddDungeon(d *Dungeon) error {
	w.mu.Lock()
	if _, exists := w.dungeons[d.ID]; exists {
		w.mu.Unlock()
		return fmt.Errorf("dungeon %s already registered", d.ID)
	}
	w.dungeons[d.ID] = d
	w.mu.Unlock()
	w.notifyTopologyChange()
	return nil
}

// Dungeon looks up a dungeon by ID.
func (w *World) Dungeon(id string) (*Dungeon, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.dungeons[id]
	return d, ok
}

// RemoveDungeon unregisters a dungeon, e.g. on unload.
func (w *World) RemoveDungeon(id string) {
	w.mu.Lock()
	delete(w.dungeons, id)
	w.mu.Unlock()
	w.notifyTopologyChange()
}

// Dungeons returns every registered dungeon, in no particular order. Used
// by pkg/pathfind to build the cross-dungeon gateway graph.
func (w *World) Dungeons() []*Dungeon {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Dungeon, 0, len(w.dungeons))
	for _, d := range w.dungeons {
		out = append(out, d)
	}
	return out
}

// ResolveRoom resolves a Ref to its Room, across dungeons.
func (w *World) ResolveRoom(ref Ref) (*Room, bool) {
	d, ok := w.Dungeon(ref.DungeonID)
	if !ok {
		return nil, false
	}
	return d.RoomAt(ref.Coord)
}

// RegisterMob tracks a live mob so it can be resolved by ID (used to
// resolve weak combat-target references).
func (w *World) RegisterMob(m *Mob) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mobs[m.ID()] = m
}

// UnregisterMob removes a mob from the live-mob index and clears any
// combat-target reference held by other mobs pointing at it, per the core
// "cleared by all referrers" rule.
func (w *World) UnregisterMob(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.mobs, id)
	for _, other := range w.mobs {
		if other.TargetID() == id {
			other.ClearTarget()
		}
	}
}

// ResolveMob resolves a weak mob-ID reference (e.g. a combat target).
func (w *World) ResolveMob(id string) (*Mob, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.mobs[id]
	return m, ok
}

// Mobs returns every live mob tracked by the world, in no particular order.
// Used by pkg/scheduler to drive the regeneration and combat-round ticks.
func (w *World) Mobs() []*Mob {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Mob, 0, len(w.mobs))
	for _, m := range w.mobs {
		out = append(out, m)
	}
	return out
}

// RegisterShopkeeper tracks a live shopkeeper so the restock tick can find
// it.
func (w *World) RegisterShopkeeper(s *Shopkeeper) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shopkeepers[s.ID()] = s
}

// UnregisterShopkeeper removes a shopkeeper from the restock index.
func (w *World) UnregisterShopkeeper(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.shopkeepers, id)
}

// Shopkeepers returns every registered shopkeeper, in no particular order.
// Used by pkg/scheduler to drive the restock tick.
func (w *World) Shopkeepers() []*Shopkeeper {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Shopkeeper, 0, len(w.shopkeepers))
	for _, s := range w.shopkeepers {
		out = append(out, s)
	}
	return out
}

// ClearTargetsOf clears the combat target held by every mob that currently
// targets deadID, e.g. on death.
func (w *World) ClearTargetsOf(deadID string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.mobs {
		if m.TargetID() == deadID {
			m.ClearTarget()
		}
	}
}

// Step moves mob one room in direction dir, firing onExit on the source
// room and onEnter (reversed direction) on the destination, in that order.
// It refuses the move if CanStep(dir) is false.
func (w *World) Step(mob *Mob, dir Direction, onExit, onEnter func(room *Room, d Direction)) error {
	if !mob.CanStep(dir) {
		return ErrNoExit
	}
	src, _ := mob.Location().(*Room)
	neighborRef, _ := src.Neighbor(dir)
	dst, ok := w.ResolveRoom(neighborRef)
	if !ok {
		return ErrNoExit
	}
	if onExit != nil {
		onExit(src, dir)
	}
	if err := Add(dst, mob); err != nil {
		return err
	}
	if onEnter != nil {
		onEnter(dst, dir.Reverse())
	}
	return nil
}

// ErrNoExit is returned when a move is attempted in a direction with no
// usable exit.
var ErrNoExit = fmt.Errorf("there is no exit in that direction")

// MoveOptions customizes a higher-level Move call, e.g. for teleports
// (Direction is ignored) versus stepped movement.
type MoveOptions struct {
	Direction  *Direction
	Target     Ref
	PreExit    func(room *Room)
	PostExit   func(room *Room)
	PreEnter   func(room *Room)
	PostEnter  func(room *Room)
}

// Move relocates mob to a destination, either by a directional Step (when
// Direction is set) or directly to Target (a teleport, skipping the
// direction argument), interleaving the supplied narrative hooks around
// the underlying re-parent.
func (w *World) Move(mob *Mob, opts MoveOptions) error {
	if opts.Direction != nil {
		d := *opts.Direction
		src, _ := mob.Location().(*Room)
		if opts.PreExit != nil {
			opts.PreExit(src)
		}
		err := w.Step(mob, d, nil, nil)
		if err != nil {
			return err
		}
		if opts.PostExit != nil {
			opts.PostExit(src)
		}
		dst, _ := mob.Location().(*Room)
		if opts.PreEnter != nil {
			opts.PreEnter(dst)
		}
		if opts.PostEnter != nil {
			opts.PostEnter(dst)
		}
		return nil
	}

	dst, ok := w.ResolveRoom(opts.Target)
	if !ok {
		return fmt.Errorf("target room %s does not exist", opts.Target)
	}
	src, _ := mob.Location().(*Room)
	if opts.PreExit != nil {
		opts.PreExit(src)
	}
	if err := Add(dst, mob); err != nil {
		return err
	}
	if opts.PostExit != nil {
		opts.PostExit(src)
	}
	if opts.PreEnter != nil {
		opts.PreEnter(dst)
	}
	if opts.PostEnter != nil {
		opts.PostEnter(dst)
	}
	return nil
}
