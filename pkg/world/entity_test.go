package world

import "testing"

func TestAddSetsLocationAndContentsSymmetrically(t *testing.T) {
	room := NewRoom("d1", Coord{}, "room", "A Room", "", AllExits)
	item := NewItem("sword", "a sword", "", "sword-tpl", 10, 5)

	if err := Add(room, item); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.Location().ID() != room.ID() {
		t.Fatal("item.Location() does not point at room")
	}
	found := false
	for _, c := range room.Contents() {
		if c.ID() == item.ID() {
			found = true
		}
	}
	if !found {
		t.Fatal("room.Contents() does not contain item")
	}
}

func TestAddReparentsAtomically(t *testing.T) {
	roomA := NewRoom("d1", Coord{X: 0}, "a", "A", "", AllExits)
	roomB := NewRoom("d1", Coord{X: 1}, "b", "B", "", AllExits)
	item := NewItem("rock", "a rock", "", "rock-tpl", 0, 1)

	if err := Add(roomA, item); err != nil {
		t.Fatalf("Add to roomA: %v", err)
	}
	if err := Add(roomB, item); err != nil {
		t.Fatalf("Add to roomB: %v", err)
	}
	for _, c := range roomA.Contents() {
		if c.ID() == item.ID() {
			t.Fatal("item still present in roomA after re-parenting")
		}
	}
	if item.Location().ID() != roomB.ID() {
		t.Fatal("item.Location() does not point at roomB")
	}
}

func TestAddRejectsCycle(t *testing.T) {
	box := NewItem("box", "a box", "", "box-tpl", 0, 0)
	box.MakeContainer(0, 0)
	inner := NewItem("pouch", "a pouch", "", "pouch-tpl", 0, 0)
	inner.MakeContainer(0, 0)

	if err := Add(box, inner); err != nil {
		t.Fatalf("Add inner to box: %v", err)
	}
	if err := Add(inner, box); err != ErrCycle {
		t.Fatalf("Add(inner, box) = %v, want ErrCycle", err)
	}
}

func TestAddRejectsSelfParenting(t *testing.T) {
	item := NewItem("loop", "a loop", "", "loop-tpl", 0, 0)
	if err := Add(item, item); err != ErrCycle {
		t.Fatalf("Add(item, item) = %v, want ErrCycle", err)
	}
}

func TestAddEnforcesCountCapacity(t *testing.T) {
	box := NewItem("box", "a box", "", "box-tpl", 0, 0)
	box.MakeContainer(0, 1)
	first := NewItem("coin", "a coin", "", "coin-tpl", 1, 1)
	second := NewItem("gem", "a gem", "", "gem-tpl", 1, 1)

	if err := Add(box, first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if err := Add(box, second); err != ErrCapacity {
		t.Fatalf("Add second = %v, want ErrCapacity", err)
	}
}

func TestAddEnforcesWeightCapacity(t *testing.T) {
	box := NewItem("box", "a box", "", "box-tpl", 0, 0)
	box.MakeContainer(10, 0)
	heavy := NewItem("anvil", "an anvil", "", "anvil-tpl", 1, 20)

	if err := Add(box, heavy); err != ErrCapacity {
		t.Fatalf("Add heavy = %v, want ErrCapacity", err)
	}
}

func TestMatchesKeywordPrefix(t *testing.T) {
	item := NewItem("sword longsword", "a sword", "", "sword-tpl", 0, 0)
	if !item.MatchesKeyword("long") {
		t.Fatal("expected prefix match on 'long'")
	}
	if item.MatchesKeyword("axe") {
		t.Fatal("unexpected match on 'axe'")
	}
}

func TestRemoveClearsLocation(t *testing.T) {
	room := NewRoom("d1", Coord{}, "room", "A Room", "", AllExits)
	item := NewItem("sword", "a sword", "", "sword-tpl", 0, 0)
	_ = Add(room, item)
	Remove(item)
	if item.Location() != nil {
		t.Fatal("expected nil location after Remove")
	}
	for _, c := range room.Contents() {
		if c.ID() == item.ID() {
			t.Fatal("room still contains item after Remove")
		}
	}
}
