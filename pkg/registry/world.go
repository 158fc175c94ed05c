package registry

import (
	"sync"

	"mudforge/pkg/world"
)

// World aggregates the registries that describe shared, read-mostly world
// data: dungeons, archetypes, abilities, and well-known locations. It is
// populated once at boot by the package loader and is safe for concurrent
// read access thereafter.
type World struct {
	Dungeons  *Store[*world.Dungeon]
	Abilities *Store[*world.Ability]
	Races     *Store[*world.Archetype]
	Jobs      *Store[*world.Archetype]
	Locations *Store[world.Ref]
	Helpfiles *Helpfiles

	mu            sync.RWMutex
	reservedNames map[string]struct{}
}

// NewWorld constructs an empty set of world registries.
func NewWorld() *World {
	return &World{
		Dungeons:      NewStore[*world.Dungeon](),
		Abilities:     NewStore[*world.Ability](),
		Races:         NewStore[*world.Archetype](),
		Jobs:          NewStore[*world.Archetype](),
		Locations:     NewStore[world.Ref](),
		Helpfiles:     NewHelpfiles(),
		reservedNames: make(map[string]struct{}),
	}
}

// ReserveName adds name to the reserved-name set (names a new character
// account may not register under: existing accounts, well-known NPCs,
// administrative names).
func (w *World) ReserveName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reservedNames[name] = struct{}{}
}

// IsReserved reports whether name is reserved.
func (w *World) IsReserved(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.reservedNames[name]
	return ok
}

// ArchetypeResolver returns a function resolving an archetype id against
// either the race or job registry, suitable for world.Deserialize. Race ids
// are tried first.
func (w *World) ArchetypeResolver() world.ArchetypeResolver {
	return func(id string) (*world.Archetype, bool) {
		if a, ok := w.Races.Get(id); ok {
			return a, true
		}
		if a, ok := w.Jobs.Get(id); ok {
			return a, true
		}
		return nil, false
	}
}

// SpawnMob instantiates a mob from a race/job pair, learning the abilities
// each archetype grants at or below level 1. The archetypes' starting
// passives (Archetype.Passives) are not applied. This is the factory described for instances produced from templates.
func SpawnMob(keywords, display, longDesc, templateID string, race, job *world.Archetype, abilities *Store[*world.Ability]) *world.Mob {
	m := world.NewMob(keywords, display, longDesc, templateID, race, job)
	for _, entry := range archetypeLearnSet(race, job) {
		if entry.LearnLevel > m.Level {
			continue
		}
		a, ok := abilities.Get(entry.AbilityID)
		if !ok {
			continue
		}
		m.UseAbility(a, 0)
	}
	return m
}

func archetypeLearnSet(race, job *world.Archetype) []world.LearnEntry {
	var out []world.LearnEntry
	if race != nil {
		out = append(out, race.Abilities...)
	}
	if job != nil {
		out = append(out, job.Abilities...)
	}
	return out
}
