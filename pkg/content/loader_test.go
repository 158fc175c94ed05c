package content

import (
	"path/filepath"
	"testing"

	"mudforge/pkg/persistence"
	"mudforge/pkg/world"
)

func TestLoadDungeonsPlacesRoomsAndGateways(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "world", "dungeons"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	rec := dungeonRecord{
		ID:     "sewers",
		Width:  4,
		Height: 4,
		Layers: 1,
		Rooms: []roomRecord{
			{
				Keywords: "entrance",
				Display:  "Sewer Entrance",
				LongDesc: "A grimy entrance to the sewers.",
				Coord:    coordRecord{X: 0, Y: 0, Z: 0},
				Exits:    []string{"east"},
			},
			{
				Keywords: "junction",
				Display:  "Sewer Junction",
				LongDesc: "Pipes converge here.",
				Coord:    coordRecord{X: 1, Y: 0, Z: 0},
				Exits:    []string{"west", "up"},
				Gateways: map[string]gatewayRecord{
					"up": {DungeonID: "surface", Coord: coordRecord{X: 5, Y: 5, Z: 0}},
				},
			},
		},
	}
	if err := fs.Save("sewers.yaml", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dungeons, err := LoadDungeons(dir)
	if err != nil {
		t.Fatalf("LoadDungeons: %v", err)
	}
	if len(dungeons) != 1 {
		t.Fatalf("expected 1 dungeon, got %d", len(dungeons))
	}
	d := dungeons[0]
	if d.ID != "sewers" || d.Width != 4 || d.Height != 4 {
		t.Fatalf("unexpected dungeon: %+v", d)
	}

	entrance, ok := d.RoomAt(world.Coord{X: 0, Y: 0, Z: 0})
	if !ok {
		t.Fatal("expected entrance room to be placed")
	}
	if !entrance.Exits.Allows(world.East) {
		t.Fatal("expected entrance to allow east exit")
	}

	junction, ok := d.RoomAt(world.Coord{X: 1, Y: 0, Z: 0})
	if !ok {
		t.Fatal("expected junction room to be placed")
	}
	ref, ok := junction.Neighbor(world.Up)
	if !ok {
		t.Fatal("expected junction's up gateway to resolve")
	}
	if ref.DungeonID != "surface" || ref.Coord != (world.Coord{X: 5, Y: 5, Z: 0}) {
		t.Fatalf("unexpected gateway ref: %+v", ref)
	}
}

func TestLoadDungeonsRejectsUnknownExit(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "world", "dungeons"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	rec := dungeonRecord{
		ID: "broken", Width: 1, Height: 1, Layers: 1,
		Rooms: []roomRecord{{Keywords: "x", Display: "X", Exits: []string{"sideways"}}},
	}
	if err := fs.Save("broken.yaml", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := LoadDungeons(dir); err == nil {
		t.Fatal("expected an error for an unknown exit direction")
	}
}

func TestLoadArchetypesParsesGrowthAndRelations(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "world", "races"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	rec := archetypeRecord{
		ID:           "dwarf",
		Name:         "Dwarf",
		Strength:     attributeGrowthRecord{Start: 12, Growth: 2},
		Agility:      attributeGrowthRecord{Start: 8, Growth: 1},
		Intelligence: attributeGrowthRecord{Start: 8, Growth: 1},
		MaxHealth:    attributeGrowthRecord{Start: 20, Growth: 5},
		MaxMana:      attributeGrowthRecord{Start: 5, Growth: 1},
		Abilities:    []learnEntryRecord{{AbilityID: "mining", LearnLevel: 1}},
		Relations:    map[string]string{"poison": "resist"},
	}
	if err := fs.Save("dwarf.yaml", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	races, err := LoadArchetypes(dir, "races")
	if err != nil {
		t.Fatalf("LoadArchetypes: %v", err)
	}
	if len(races) != 1 {
		t.Fatalf("expected 1 race, got %d", len(races))
	}
	dwarf := races[0]
	if dwarf.Strength.Start != 12 || dwarf.Strength.Growth != 2 {
		t.Fatalf("unexpected strength growth: %+v", dwarf.Strength)
	}
	if len(dwarf.Abilities) != 1 || dwarf.Abilities[0].AbilityID != "mining" {
		t.Fatalf("unexpected abilities: %+v", dwarf.Abilities)
	}
	if dwarf.RelationFor("poison") != world.RelationResist {
		t.Fatalf("expected poison resistance, got %v", dwarf.RelationFor("poison"))
	}
	if dwarf.RelationFor("fire") != world.RelationNormal {
		t.Fatalf("expected default normal relation, got %v", dwarf.RelationFor("fire"))
	}
}

func TestLoadArchetypesRejectsUnknownRelation(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "world", "jobs"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	rec := archetypeRecord{ID: "warrior", Name: "Warrior", Relations: map[string]string{"fire": "flammable"}}
	if err := fs.Save("warrior.yaml", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := LoadArchetypes(dir, "jobs"); err == nil {
		t.Fatal("expected an error for an unknown damage relation")
	}
}

func TestLoadAbilitiesGeneratesProficiencyTable(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "world", "abilities"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	rec := abilityRecord{
		ID: "backstab", Name: "Backstab", Description: "A sneaky strike.",
		Curve: proficiencyCurveRecord{Use25: 25, Use50: 50, Use75: 75, Use100: 100},
	}
	if err := fs.Save("backstab.yaml", rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	abilities, err := LoadAbilities(dir)
	if err != nil {
		t.Fatalf("LoadAbilities: %v", err)
	}
	if len(abilities) != 1 {
		t.Fatalf("expected 1 ability, got %d", len(abilities))
	}
	a := abilities[0]
	if a.ID != "backstab" || a.Name != "Backstab" {
		t.Fatalf("unexpected ability: %+v", a)
	}
	if a.ProficiencyAt(100) != 100 {
		t.Fatalf("expected full proficiency at 100 uses, got %d", a.ProficiencyAt(100))
	}
}

func TestLoadHelpfilesRoundTripsTopicAndSeeAlso(t *testing.T) {
	dir := t.TempDir()
	fs, err := persistence.NewFileStore(filepath.Join(dir, "help"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	hf := map[string]interface{}{
		"topic":    "look",
		"aliases":  []string{"l"},
		"body":     "Look around the room.",
		"see_also": []string{"examine"},
	}
	if err := fs.Save("look.yaml", hf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	helpfiles, err := LoadHelpfiles(dir)
	if err != nil {
		t.Fatalf("LoadHelpfiles: %v", err)
	}
	if len(helpfiles) != 1 {
		t.Fatalf("expected 1 helpfile, got %d", len(helpfiles))
	}
	got := helpfiles[0]
	if got.Topic != "look" || len(got.Aliases) != 1 || got.Aliases[0] != "l" {
		t.Fatalf("unexpected helpfile: %+v", got)
	}
	if len(got.SeeAlso) != 1 || got.SeeAlso[0] != "examine" {
		t.Fatalf("unexpected see-also: %+v", got.SeeAlso)
	}
}
