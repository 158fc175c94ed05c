package world

import "fmt"

// Coord is a room's position within a single dungeon's grid.
type Coord struct {
	X, Y, Z int
}

// Ref is a globally unique room reference of the form @dungeonId{x,y,z},
// resolvable by the Registry across dungeons.
type Ref struct {
	DungeonID string
	Coord     Coord
}

func (r Ref) String() string {
	return fmt.Sprintf("@%s{%d,%d,%d}", r.DungeonID, r.Coord.X, r.Coord.Y, r.Coord.Z)
}

// Room is an entity positioned on a dungeon grid. It carries an allowed-exit
// bitmask and any inter-dungeon gateway links keyed by direction.
type Room struct {
	Base
	Dungeon   *Dungeon
	Coord     Coord
	Exits     ExitMask
	Gateways  map[Direction]Ref
	dungeonID string
}

// NewRoom constructs a room at the given coordinate within dungeonID, with
// the given allowed exits.
func NewRoom(dungeonID string, coord Coord, keywords, display, longDesc string, exits ExitMask) *Room {
	return &Room{
		Base:      NewBase(keywords, display, longDesc, ""),
		Coord:     coord,
		Exits:     exits,
		Gateways:  make(map[Direction]Ref),
		dungeonID: dungeonID,
	}
}

// Ref returns this room's globally unique reference.
func (r *Room) Ref() Ref {
	return Ref{DungeonID: r.dungeonID, Coord: r.Coord}
}

// AddGateway registers an inter-dungeon link leaving this room in direction
// d, overwriting any existing gateway in that direction.
func (r *Room) AddGateway(d Direction, target Ref) {
	r.Gateways[d] = target
}

// RemoveGateway removes any gateway leaving this room in direction d.
func (r *Room) RemoveGateway(d Direction) {
	delete(r.Gateways, d)
}

// Neighbor resolves the room's neighbor in direction D per the rule in the
// this package: a gateway target if one exists on D, else the
// adjacent grid cell if the dungeon permits exit in D and a room exists
// there, else none (ok=false).
func (r *Room) Neighbor(d Direction) (Ref, bool) {
	if gw, ok := r.Gateways[d]; ok {
		return gw, true
	}
	if !r.Exits.Allows(d) {
		return Ref{}, false
	}
	if r.Dungeon == nil {
		return Ref{}, false
	}
	dx, dy, dz := d.Offset()
	target := Coord{X: r.Coord.X + dx, Y: r.Coord.Y + dy, Z: r.Coord.Z + dz}
	neighbor, ok := r.Dungeon.RoomAt(target)
	if !ok {
		return Ref{}, false
	}
	return neighbor.Ref(), true
}

// CapacityWeight implements Container; rooms have no carrying limit.
func (r *Room) CapacityWeight() int { return 0 }

// CapacityCount implements Container; rooms have no occupant limit.
func (r *Room) CapacityCount() int { return 0 }
