// Package pathfind implements A* search over the room grid described by
// pkg/world: 3-D Manhattan distance as heuristic, pluggable edge cost and
// filter functions, and a cache of discovered paths keyed by (source, goal)
// invalidated whenever the world's topology changes.
package pathfind

import (
	"container/heap"
	"fmt"

	"mudforge/pkg/world"
)

// CostFunc assigns a step cost to moving from a room to a neighboring one via
// direction d. The default cost function returns 1 for every step.
type CostFunc func(from world.Ref, d world.Direction, to world.Ref) int

// FilterFunc reports whether a step is traversable at all, independent of
// cost. The default filter allows every discovered edge.
type FilterFunc func(from world.Ref, d world.Direction, to world.Ref) bool

// DefaultCost assigns every edge a uniform cost of 1.
func DefaultCost(world.Ref, world.Direction, world.Ref) int { return 1 }

// DefaultFilter allows every edge the room graph exposes.
func DefaultFilter(world.Ref, world.Direction, world.Ref) bool { return true }

// Result is a discovered path: the directions to step in order, the room
// references visited (len(Rooms) == len(Directions)+1), the per-step costs
// incurred, and the total cost.
type Result struct {
	Directions []world.Direction
	Rooms      []world.Ref
	Costs      []int
	Cost       int
	Found      bool
}

// node is one entry in the A* open/closed sets: the room it represents, its
// accumulated cost G, heuristic estimate H, total F = G+H, and enough of a
// breadcrumb trail to reconstruct the winning path.
type node struct {
	ref      world.Ref
	g, h, f  int
	viaDir   world.Direction
	viaCost  int
	parent   *node
	index    int
}

// priorityQueue is a container/heap min-heap over node.f.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*node)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	item.index = -1
	*pq = old[:n-1]
	return item
}

// heuristic estimates the remaining cost from a to b as 3-D Manhattan
// distance. Across dungeons, coordinates are not comparable, so the
// heuristic falls back to 0 (still admissible, since real costs are
// non-negative).
func heuristic(a, b world.Ref) int {
	if a.DungeonID != b.DungeonID {
		return 0
	}
	return abs(a.Coord.X-b.Coord.X) + abs(a.Coord.Y-b.Coord.Y) + abs(a.Coord.Z-b.Coord.Z)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// astar runs A* from start to goal within the room graph reachable from w,
// using cost and filter (both must be non-nil; callers supply the package
// defaults when the caller passed none). Neighbors are discovered through
// Room.Neighbor, which already resolves inter-dungeon gateway links as
// single-step edges, so a single run of this function can cross dungeon
// boundaries when a gateway makes that the cheapest route.
func astar(w *world.World, start, goal world.Ref, cost CostFunc, filter FilterFunc) (*Result, error) {
	if _, ok := w.ResolveRoom(start); !ok {
		return nil, fmt.Errorf("pathfind: start room %s not found", start)
	}
	if _, ok := w.ResolveRoom(goal); !ok {
		return nil, fmt.Errorf("pathfind: goal room %s not found", goal)
	}
	if start == goal {
		return &Result{Rooms: []world.Ref{start}, Found: true}, nil
	}

	open := &priorityQueue{}
	heap.Init(open)

	closed := make(map[world.Ref]bool)
	byRef := make(map[world.Ref]*node)

	startNode := &node{ref: start, g: 0, h: heuristic(start, goal)}
	startNode.f = startNode.g + startNode.h
	heap.Push(open, startNode)
	byRef[start] = startNode

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if current.ref == goal {
			return reconstruct(current), nil
		}
		closed[current.ref] = true

		room, ok := w.ResolveRoom(current.ref)
		if !ok {
			continue
		}
		for _, d := range world.AllDirections() {
			neighborRef, ok := room.Neighbor(d)
			if !ok || closed[neighborRef] {
				continue
			}
			if !filter(current.ref, d, neighborRef) {
				continue
			}
			step := cost(current.ref, d, neighborRef)
			tentativeG := current.g + step

			neighbor, exists := byRef[neighborRef]
			if !exists {
				neighbor = &node{
					ref:     neighborRef,
					g:       tentativeG,
					h:       heuristic(neighborRef, goal),
					viaDir:  d,
					viaCost: step,
					parent:  current,
				}
				neighbor.f = neighbor.g + neighbor.h
				heap.Push(open, neighbor)
				byRef[neighborRef] = neighbor
				continue
			}
			if tentativeG < neighbor.g {
				neighbor.g = tentativeG
				neighbor.f = neighbor.g + neighbor.h
				neighbor.viaDir = d
				neighbor.viaCost = step
				neighbor.parent = current
				if neighbor.index >= 0 {
					heap.Fix(open, neighbor.index)
				}
			}
		}
	}

	return &Result{Found: false}, nil
}

// reconstruct walks goal's parent chain back to the start, building the
// forward-ordered Result.
func reconstruct(goal *node) *Result {
	var dirs []world.Direction
	var costs []int
	var rooms []world.Ref
	total := 0

	for n := goal; n != nil; n = n.parent {
		rooms = append([]world.Ref{n.ref}, rooms...)
		if n.parent != nil {
			dirs = append([]world.Direction{n.viaDir}, dirs...)
			costs = append([]int{n.viaCost}, costs...)
			total += n.viaCost
		}
	}

	return &Result{Directions: dirs, Rooms: rooms, Costs: costs, Cost: total, Found: true}
}
