package world

import "testing"

func buildTwoRoomWorld(t *testing.T) (*World, *Dungeon, *Room, *Room) {
	t.Helper()
	w := NewWorld()
	d := NewDungeon("d1", 3, 3, 1)
	if err := w.AddDungeon(d); err != nil {
		t.Fatalf("AddDungeon: %v", err)
	}
	a := NewRoom("d1", Coord{X: 1, Y: 1}, "a", "Room A", "", AllExits)
	b := NewRoom("d1", Coord{X: 2, Y: 1}, "b", "Room B", "", AllExits)
	if err := d.PlaceRoom(a); err != nil {
		t.Fatalf("PlaceRoom a: %v", err)
	}
	if err := d.PlaceRoom(b); err != nil {
		t.Fatalf("PlaceRoom b: %v", err)
	}
	return w, d, a, b
}

func TestWorldStepMovesMobAndFiresHooksInOrder(t *testing.T) {
	w, _, a, b := buildTwoRoomWorld(t)
	m := NewMob("hero", "a hero", "", "hero-tpl", nil, nil)
	_ = Add(a, m)

	var order []string
	err := w.Step(m, East, func(r *Room, d Direction) {
		order = append(order, "exit:"+r.ID())
	}, func(r *Room, d Direction) {
		order = append(order, "enter:"+r.ID())
		if d != West {
			t.Errorf("onEnter direction = %s, want west", d)
		}
	})
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Location().ID() != b.ID() {
		t.Fatal("mob did not move into room b")
	}
	if len(order) != 2 || order[0] != "exit:"+a.ID() || order[1] != "enter:"+b.ID() {
		t.Fatalf("hook order = %v, want [exit:a enter:b]", order)
	}
}

func TestWorldStepRefusesWithoutExit(t *testing.T) {
	w := NewWorld()
	d := NewDungeon("d1", 3, 3, 1)
	_ = w.AddDungeon(d)
	a := NewRoom("d1", Coord{X: 1, Y: 1}, "a", "Room A", "", 0)
	_ = d.PlaceRoom(a)

	m := NewMob("hero", "a hero", "", "hero-tpl", nil, nil)
	_ = Add(a, m)

	if err := w.Step(m, North, nil, nil); err != ErrNoExit {
		t.Fatalf("Step = %v, want ErrNoExit", err)
	}
}

func TestWorldUnregisterMobClearsOtherMobsTargets(t *testing.T) {
	w, _, a, _ := buildTwoRoomWorld(t)
	victim := NewMob("goblin", "a goblin", "", "goblin-tpl", nil, nil)
	attacker := NewMob("hero", "a hero", "", "hero-tpl", nil, nil)
	_ = Add(a, victim)
	_ = Add(a, attacker)

	w.RegisterMob(victim)
	w.RegisterMob(attacker)
	attacker.SetTarget(victim.ID())

	w.UnregisterMob(victim.ID())

	if attacker.TargetID() != "" {
		t.Fatal("attacker's target should have been cleared when the victim was unregistered")
	}
	if _, ok := w.ResolveMob(victim.ID()); ok {
		t.Fatal("victim should no longer resolve after UnregisterMob")
	}
}

func TestWorldResolveRoomAcrossDungeons(t *testing.T) {
	w, _, a, _ := buildTwoRoomWorld(t)
	got, ok := w.ResolveRoom(a.Ref())
	if !ok || got.ID() != a.ID() {
		t.Fatal("ResolveRoom did not find room a by ref")
	}
	if _, ok := w.ResolveRoom(Ref{DungeonID: "nope", Coord: Coord{}}); ok {
		t.Fatal("ResolveRoom should fail for an unknown dungeon")
	}
}

func TestWorldMoveTeleportToTarget(t *testing.T) {
	w, _, a, b := buildTwoRoomWorld(t)
	m := NewMob("hero", "a hero", "", "hero-tpl", nil, nil)
	_ = Add(a, m)

	err := w.Move(m, MoveOptions{Target: b.Ref()})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if m.Location().ID() != b.ID() {
		t.Fatal("mob did not teleport into room b")
	}
}

func TestWorldAddDungeonRejectsDuplicate(t *testing.T) {
	w := NewWorld()
	d1 := NewDungeon("d1", 1, 1, 1)
	d2 := NewDungeon("d1", 2, 2, 1)
	if err := w.AddDungeon(d1); err != nil {
		t.Fatalf("AddDungeon d1: %v", err)
	}
	if err := w.AddDungeon(d2); err == nil {
		t.Fatal("expected an error registering a duplicate dungeon id")
	}
}

func TestWorldTopologyChangeNotifiesOnDungeonMutation(t *testing.T) {
	w := NewWorld()
	calls := 0
	w.OnTopologyChange(func() { calls++ })
	d := NewDungeon("d1", 1, 1, 1)
	_ = w.AddDungeon(d)
	w.RemoveDungeon("d1")
	if calls != 2 {
		t.Fatalf("topology change callback fired %d times, want 2", calls)
	}
}
