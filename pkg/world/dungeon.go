package world

import (
	"fmt"
	"sync"
)

// Dungeon is a rectangular (width, height, layers) volume of rooms,
// addressable by coordinate and by a globally unique Ref. It mirrors the
// teacher's World grid bounds-checking (isPositionWithinBounds) but keyed
// per dungeon instead of a single flat world.
type Dungeon struct {
	mu      sync.RWMutex
	ID      string
	Width   int
	Height  int
	Layers  int
	rooms   map[Coord]*Room
}

// NewDungeon constructs an empty dungeon volume of the given dimensions.
func NewDungeon(id string, width, height, layers int) *Dungeon {
	return &Dungeon{
		ID:     id,
		Width:  width,
		Height: height,
		Layers: layers,
		rooms:  make(map[Coord]*Room),
	}
}

// InBounds reports whether coord lies within the dungeon's declared volume.
func (d *Dungeon) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < d.Width &&
		c.Y >= 0 && c.Y < d.Height &&
		c.Z >= 0 && c.Z < d.Layers
}

// PlaceRoom inserts room at its own coordinate, refusing placement outside
// the declared volume or a duplicate coordinate.
func (d *Dungeon) PlaceRoom(room *Room) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.InBounds(room.Coord) {
		return fmt.Errorf("room coordinate %+v out of bounds for dungeon %s", room.Coord, d.ID)
	}
	if _, exists := d.rooms[room.Coord]; exists {
		return fmt.Errorf("room already placed at %+v in dungeon %s", room.Coord, d.ID)
	}
	room.Dungeon = d
	d.rooms[room.Coord] = room
	return nil
}

// RoomAt returns the room at coord, if any.
func (d *Dungeon) RoomAt(coord Coord) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[coord]
	return r, ok
}

// Rooms returns every room placed in the dungeon, in no particular order.
func (d *Dungeon) Rooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		out = append(out, r)
	}
	return out
}

// RemoveRoom removes the room at coord, if present, clearing its dungeon
// back-reference.
func (d *Dungeon) RemoveRoom(coord Coord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.rooms[coord]; ok {
		r.Dungeon = nil
		delete(d.rooms, coord)
	}
}
