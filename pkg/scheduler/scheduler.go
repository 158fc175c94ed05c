// Package scheduler drives the world's periodic jobs: an in-game calendar
// derived from a monotonic wall clock, and the regeneration, combat-round,
// and restock ticks that mutate the world on a timer rather than in
// response to a command.
package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mudforge/pkg/narrate"
	"mudforge/pkg/world"
)

// Scheduler owns the three independent tick loops (regeneration, combat,
// restock) that mutate a World on a timer. Every tick, regardless of which
// loop fired it, serializes against the other two and against the world
// lane's own mutating calls through tickMu, so a command handler running
// concurrently with a tick never observes a half-applied tick.
type Scheduler struct {
	world    *world.World
	clock    *Clock
	roller   *CombatRoller
	barkRand *rand.Rand

	regenInterval   time.Duration
	combatInterval  time.Duration
	restockInterval time.Duration

	deliver func([]narrate.Line)

	tickMu   sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New constructs a Scheduler for w, with the given tick intervals (normally
// sourced from Config.RegenTickInterval/CombatTickInterval/
// RestockTickInterval) and the given in-game calendar.
func New(w *world.World, calendar Calendar, regenInterval, combatInterval, restockInterval time.Duration) *Scheduler {
	return &Scheduler{
		world:           w,
		clock:           NewClock(calendar, time.Now()),
		roller:          NewCombatRoller(),
		barkRand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		regenInterval:   regenInterval,
		combatInterval:  combatInterval,
		restockInterval: restockInterval,
		stopChan:        make(chan struct{}),
	}
}

// SetDeliver registers the callback used to route narrate.Lines produced
// by tick-driven events (currently: idle mob barks) to their recipients'
// live sessions. A nil deliver (the default) silently drops tick
// narration, which is harmless for tests that don't care about it.
func (s *Scheduler) SetDeliver(deliver func([]narrate.Line)) {
	s.deliver = deliver
}

// Now returns the current in-game calendar time.
func (s *Scheduler) Now() GameTime {
	return s.clock.At(time.Now())
}

// Start launches the regen, combat, and restock tick loops as background
// goroutines. It returns immediately; call Stop (or cancel ctx) to halt
// them.
func (s *Scheduler) Start(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"function":         "Start",
		"regen_interval":   s.regenInterval,
		"combat_interval":  s.combatInterval,
		"restock_interval": s.restockInterval,
	}).Info("starting world tick loops")

	s.wg.Add(3)
	go s.runLoop(ctx, s.regenInterval, s.tickRegen)
	go s.runLoop(ctx, s.combatInterval, s.tickCombat)
	go s.runLoop(ctx, s.restockInterval, s.tickRestock)
}

// Stop halts every tick loop and blocks until each has exited.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, interval time.Duration, tick func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick()
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tickRegen() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	lines := RunRegenTick(s.world, time.Now(), s.barkRand)
	if len(lines) > 0 && s.deliver != nil {
		s.deliver(lines)
	}
}

func (s *Scheduler) tickCombat() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	RunCombatTick(s.world, s.roller)
}

func (s *Scheduler) tickRestock() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	RunRestockTick(s.world)
}
