package pathfind

import (
	"fmt"

	"mudforge/pkg/world"
)

// GatewayEdge is one gateway link leaving a room in one dungeon and
// arriving in another.
type GatewayEdge struct {
	From world.Ref
	Dir  world.Direction
	To   world.Ref
}

// GatewaySelector picks which of several candidate gateway edges between the
// same pair of dungeons to use for a cross-dungeon route. The default
// selector takes the first candidate. Candidates are gathered by ranging
// over maps, so when there are several, which one comes first is not
// defined.
type GatewaySelector func(candidates []GatewayEdge) GatewayEdge

// FirstGateway is the default GatewaySelector: the first available edge.
func FirstGateway(candidates []GatewayEdge) GatewayEdge {
	return candidates[0]
}

// dungeonGraph indexes every inter-dungeon gateway edge by its source
// dungeon id, for the coarse BFS over dungeon ids.
func dungeonGraph(w *world.World) map[string][]GatewayEdge {
	graph := make(map[string][]GatewayEdge)
	for _, d := range w.Dungeons() {
		for _, room := range d.Rooms() {
			for dir, target := range room.Gateways {
				if target.DungeonID == d.ID {
					continue
				}
				graph[d.ID] = append(graph[d.ID], GatewayEdge{From: room.Ref(), Dir: dir, To: target})
			}
		}
	}
	return graph
}

// dungeonRoute runs a breadth-first search over the dungeon-id meta-graph
// and returns the sequence of dungeon ids from start to goal, plus the
// gateway edge chosen to leave each dungeon in the sequence (one fewer than
// the number of dungeons).
func dungeonRoute(graph map[string][]GatewayEdge, start, goal string, selector GatewaySelector) ([]string, []GatewayEdge, error) {
	if start == goal {
		return []string{start}, nil, nil
	}

	type frame struct {
		from string
		via  GatewayEdge
	}

	visited := map[string]bool{start: true}
	parent := map[string]frame{}
	queue := []string{start}

	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]

		byNeighbor := make(map[string][]GatewayEdge)
		for _, edge := range graph[cur] {
			byNeighbor[edge.To.DungeonID] = append(byNeighbor[edge.To.DungeonID], edge)
		}
		for next, candidates := range byNeighbor {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = frame{from: cur, via: selector(candidates)}
			if next == goal {
				found = true
				break
			}
			queue = append(queue, next)
		}
	}

	if !visited[goal] {
		return nil, nil, fmt.Errorf("pathfind: no dungeon route from %q to %q", start, goal)
	}

	var ids []string
	var edges []GatewayEdge
	cur := goal
	for cur != start {
		f := parent[cur]
		ids = append([]string{cur}, ids...)
		edges = append([]GatewayEdge{f.via}, edges...)
		cur = f.from
	}
	ids = append([]string{start}, ids...)
	return ids, edges, nil
}

// FindCrossDungeon routes from start to goal, possibly through intermediate
// dungeons connected by gateway links. Each intra-dungeon leg is solved with
// astar and the legs are stitched end to end, collapsing the duplicate join
// room shared by consecutive legs (the gateway's source room and the
// subsequent leg's own start are the same room only conceptually; the
// gateway step itself is the edge between them).
func (p *Pathfinder) FindCrossDungeon(start, goal world.Ref, opts Options, selector GatewaySelector) (*Result, error) {
	if start.DungeonID == goal.DungeonID {
		return p.Find(start, goal, opts)
	}
	if selector == nil {
		selector = FirstGateway
	}

	graph := dungeonGraph(p.world)
	_, edges, err := dungeonRoute(graph, start.DungeonID, goal.DungeonID, selector)
	if err != nil {
		return nil, err
	}

	cost := opts.Cost
	if cost == nil {
		cost = DefaultCost
	}
	filter := opts.Filter
	if filter == nil {
		filter = DefaultFilter
	}

	result := &Result{Found: true}
	cursor := start
	for _, edge := range edges {
		leg, err := astar(p.world, cursor, edge.From, cost, filter)
		if err != nil {
			return nil, err
		}
		if !leg.Found {
			return &Result{Found: false}, nil
		}
		appendLeg(result, leg)

		if !filter(edge.From, edge.Dir, edge.To) {
			return &Result{Found: false}, nil
		}
		stepCost := cost(edge.From, edge.Dir, edge.To)
		result.Directions = append(result.Directions, edge.Dir)
		result.Costs = append(result.Costs, stepCost)
		result.Cost += stepCost
		result.Rooms = append(result.Rooms, edge.To)
		cursor = edge.To
	}

	final, err := astar(p.world, cursor, goal, cost, filter)
	if err != nil {
		return nil, err
	}
	if !final.Found {
		return &Result{Found: false}, nil
	}
	appendLeg(result, final)

	return result, nil
}

// appendLeg folds leg into result, collapsing the duplicate join room: the
// first room of leg is already the last room recorded in result (or, for
// the very first leg, result has no rooms yet).
func appendLeg(result *Result, leg *Result) {
	if len(result.Rooms) == 0 {
		result.Rooms = append(result.Rooms, leg.Rooms...)
	} else {
		result.Rooms = append(result.Rooms, leg.Rooms[1:]...)
	}
	result.Directions = append(result.Directions, leg.Directions...)
	result.Costs = append(result.Costs, leg.Costs...)
	result.Cost += leg.Cost
}
