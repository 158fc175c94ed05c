package scheduler

import (
	"math/rand"
	"time"

	"mudforge/pkg/narrate"
	"mudforge/pkg/world"
)

// RunRegenTick advances every live mob's health and mana toward their caps,
// expires any effect whose duration has elapsed as of now, and rolls each
// mob's idle-chatter chance, returning any bark lines produced for
// delivery to their room.
func RunRegenTick(w *world.World, now time.Time, rng *rand.Rand) []narrate.Line {
	var lines []narrate.Line
	for _, m := range w.Mobs() {
		if m.IsDead() {
			continue
		}
		m.Regenerate()
		m.ExpireEffects(now)

		text, ok := m.Bark(rng)
		if !ok {
			continue
		}
		room, ok := m.Location().(*world.Room)
		if !ok {
			continue
		}
		lines = append(lines, narrate.Act(m, nil, room, narrate.Templates{
			Room: "{User} says, \"" + text + "\"",
		}, narrate.Options{Group: narrate.GroupAction})...)
	}
	return lines
}
