package scheduler

import (
	"context"
	"testing"
	"time"

	"mudforge/pkg/world"
)

func TestSchedulerRunsRestockTickOnItsInterval(t *testing.T) {
	w := world.NewWorld()
	race := &world.Archetype{ID: "shopkeeper-race"}
	s := world.NewShopkeeper("shopkeeper", "a shopkeeper", "", "shop-tpl", race, race)
	s.Rules = []*world.RestockRule{{TemplateID: "arrow", Infinite: true}}
	w.RegisterShopkeeper(s)

	sched := New(w, Calendar{HoursPerDay: 24, DaysPerWeek: 7, MonthsPerYear: 12},
		time.Hour, time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Stock["arrow"] > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected at least one restock tick to have run within the deadline")
}

func TestSchedulerStopHaltsAllLoops(t *testing.T) {
	w := world.NewWorld()
	sched := New(w, Calendar{HoursPerDay: 24, DaysPerWeek: 7, MonthsPerYear: 12},
		5*time.Millisecond, 5*time.Millisecond, 5*time.Millisecond)

	ctx := context.Background()
	sched.Start(ctx)
	sched.Stop()

	// Stop must return (it blocks on the waitgroup); a second Stop on an
	// already-stopped scheduler is not supported, so reaching this line at
	// all demonstrates every loop goroutine exited cleanly.
}

func TestSchedulerNowReflectsElapsedCalendarTime(t *testing.T) {
	w := world.NewWorld()
	sched := New(w, Calendar{HoursPerDay: 24, DaysPerWeek: 7, MonthsPerYear: 12},
		time.Hour, time.Hour, time.Hour)

	first := sched.Now()
	if first.Hour != 0 {
		t.Fatalf("Now().Hour immediately after New = %d, want 0", first.Hour)
	}
}
