package account

import (
	"testing"

	"mudforge/pkg/world"
)

func newAccountTestArchetype(id string) *world.Archetype {
	return &world.Archetype{
		ID:        id,
		Strength:  world.AttributeGrowth{Start: 10},
		MaxHealth: world.AttributeGrowth{Start: 50},
		MaxMana:   world.AttributeGrowth{Start: 20},
	}
}

func newAccountTestStore(t *testing.T) *Store {
	t.Helper()
	race := newAccountTestArchetype("human")
	resolve := func(id string) (*world.Archetype, bool) {
		if id == race.ID {
			return race, true
		}
		return nil, false
	}
	s, err := NewStore(t.TempDir(), resolve)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func newAccountTestMob() *world.Mob {
	race := newAccountTestArchetype("human")
	return world.NewMob("alice", "Alice", "a weary adventurer", "", race, race)
}

func TestCreateThenLoadRoundTripsMob(t *testing.T) {
	s := newAccountTestStore(t)
	mob := newAccountTestMob()
	mob.AddGold(25)

	created, err := s.Create("alice", "hunter2", mob)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Username != "alice" {
		t.Fatalf("Username = %q, want alice", created.Username)
	}

	loaded, err := s.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Mob.Gold() != 25 {
		t.Fatalf("loaded mob gold = %d, want 25", loaded.Mob.Gold())
	}
	if loaded.Mob.Display() != "Alice" {
		t.Fatalf("loaded mob display = %q, want Alice", loaded.Mob.Display())
	}
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	s := newAccountTestStore(t)
	if _, err := s.Create("alice", "hunter2", newAccountTestMob()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create("alice", "different", newAccountTestMob()); err != ErrAlreadyExists {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateRejectsInvalidUsernameOrPassword(t *testing.T) {
	s := newAccountTestStore(t)
	if _, err := s.Create("ab", "hunter2", newAccountTestMob()); err == nil {
		t.Fatalf("expected an error for a too-short username")
	}
	if _, err := s.Create("alice", "abcd", newAccountTestMob()); err == nil {
		t.Fatalf("expected an error for a too-short password")
	}
}

func TestAuthenticateAcceptsCorrectPassword(t *testing.T) {
	s := newAccountTestStore(t)
	if _, err := s.Create("alice", "hunter2", newAccountTestMob()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	c, err := s.Authenticate("alice", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if c.Username != "alice" {
		t.Fatalf("Username = %q, want alice", c.Username)
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	s := newAccountTestStore(t)
	if _, err := s.Create("alice", "hunter2", newAccountTestMob()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Authenticate("alice", "wrongpass"); err != ErrWrongPassword {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}

func TestAuthenticateRejectsUnknownUsername(t *testing.T) {
	s := newAccountTestStore(t)
	if _, err := s.Authenticate("nosuch", "hunter2"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSavePersistsSettingsChanges(t *testing.T) {
	s := newAccountTestStore(t)
	c, err := s.Create("alice", "hunter2", newAccountTestMob())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.Settings.Brief = true
	if err := s.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := s.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reloaded.Settings.Brief {
		t.Fatalf("expected Brief setting to persist")
	}
}
