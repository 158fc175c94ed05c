package pathfind

import (
	"sync"

	"golang.org/x/exp/slices"

	"mudforge/pkg/world"
)

// Options customizes a single Find call. A zero Options uses the package's
// default uniform cost and permissive filter, which is the only
// configuration the path cache is allowed to serve from.
type Options struct {
	Cost   CostFunc
	Filter FilterFunc
}

func (o Options) isDefault() bool {
	return o.Cost == nil && o.Filter == nil
}

// Pathfinder resolves routes over a World's room graph, caching
// default-cost, default-filter results keyed by (source, goal) along with
// every suffix of the winning path. Callers should register
// Pathfinder.InvalidateCache with World.OnTopologyChange so that adding or
// removing a dungeon drops every cached route. Room exit and gateway edits
// do not fire that callback and leave the cache as it is.
type Pathfinder struct {
	world *world.World

	mu    sync.RWMutex
	cache map[cacheKey]*Result
}

type cacheKey struct {
	from world.Ref
	to   world.Ref
}

// New constructs a Pathfinder over w.
func New(w *world.World) *Pathfinder {
	return &Pathfinder{world: w, cache: make(map[cacheKey]*Result)}
}

// Find routes from start to goal within the room graph, crossing dungeon
// boundaries transparently wherever a gateway link makes that the
// lowest-cost step (Room.Neighbor resolves gateways as ordinary edges).
// Results are served from and written to the path cache only when opts is
// the zero value (default cost and filter).
func (p *Pathfinder) Find(start, goal world.Ref, opts Options) (*Result, error) {
	cacheable := opts.isDefault()

	if cacheable {
		if cached, ok := p.lookup(start, goal); ok {
			return cached, nil
		}
	}

	cost := opts.Cost
	if cost == nil {
		cost = DefaultCost
	}
	filter := opts.Filter
	if filter == nil {
		filter = DefaultFilter
	}

	result, err := astar(p.world, start, goal, cost, filter)
	if err != nil {
		return nil, err
	}

	if cacheable && result.Found {
		p.store(result)
	}
	return result, nil
}

// lookup serves a cached result for (from, to), if present.
func (p *Pathfinder) lookup(from, to world.Ref) (*Result, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.cache[cacheKey{from: from, to: to}]
	return r, ok
}

// store records result and every suffix of it: for a path visiting
// rooms r0..rn, the suffix starting at ri (i>0) to rn is cached under its
// own (ri, rn) key, since an in-flight pathfinder that later re-queries
// "from here to the same goal" should hit the cache too.
func (p *Pathfinder) store(result *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(result.Rooms)
	if n == 0 {
		return
	}
	goal := result.Rooms[n-1]

	for i := 0; i < n; i++ {
		suffix := &Result{
			Directions: slices.Clone(result.Directions[i:]),
			Rooms:      slices.Clone(result.Rooms[i:]),
			Costs:      slices.Clone(result.Costs[i:]),
			Found:      true,
		}
		for _, c := range suffix.Costs {
			suffix.Cost += c
		}
		p.cache[cacheKey{from: result.Rooms[i], to: goal}] = suffix
	}
}

// InvalidateCache drops every cached path. Callers invoke this whenever the
// world's topology changes: a room is added or removed, or a gateway is
// toggled.
func (p *Pathfinder) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache = make(map[cacheKey]*Result)
}
