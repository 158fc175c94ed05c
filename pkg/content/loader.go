// Package content reads the YAML world data (dungeons and their rooms,
// races, jobs, abilities) that registry.World is populated from at boot,
// the same FileStore-backed, one-record-per-entry convention pkg/board and
// pkg/account use for their own directories.
package content

import (
	"fmt"
	"path/filepath"
	"strings"

	"mudforge/pkg/persistence"
	"mudforge/pkg/registry"
	"mudforge/pkg/world"
)

type coordRecord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

func (c coordRecord) toCoord() world.Coord {
	return world.Coord{X: c.X, Y: c.Y, Z: c.Z}
}

type gatewayRecord struct {
	DungeonID string      `yaml:"dungeon_id"`
	Coord     coordRecord `yaml:"coord"`
}

type roomRecord struct {
	Keywords string                   `yaml:"keywords"`
	Display  string                   `yaml:"display"`
	LongDesc string                   `yaml:"long_desc"`
	Coord    coordRecord              `yaml:"coord"`
	Exits    []string                 `yaml:"exits"`
	Gateways map[string]gatewayRecord `yaml:"gateways,omitempty"`
}

type dungeonRecord struct {
	ID     string       `yaml:"id"`
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Layers int          `yaml:"layers"`
	Rooms  []roomRecord `yaml:"rooms"`
}

func exitMaskFrom(names []string) (world.ExitMask, error) {
	var mask world.ExitMask
	for _, n := range names {
		d, ok := world.ParseDirection(n)
		if !ok {
			return 0, fmt.Errorf("content: unknown exit direction %q", n)
		}
		mask = mask.With(d)
	}
	return mask, nil
}

// LoadDungeons reads every *.yaml file under dataDir/world/dungeons, each
// describing one dungeon and its rooms, and returns the hydrated dungeons
// with every room already placed.
func LoadDungeons(dataDir string) ([]*world.Dungeon, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "world", "dungeons"))
	if err != nil {
		return nil, err
	}
	names, err := fs.List("*.yaml")
	if err != nil {
		return nil, err
	}

	out := make([]*world.Dungeon, 0, len(names))
	for _, fname := range names {
		var rec dungeonRecord
		if err := fs.Load(fname, &rec); err != nil {
			return nil, fmt.Errorf("content: loading dungeon %s: %w", fname, err)
		}
		d := world.NewDungeon(rec.ID, rec.Width, rec.Height, rec.Layers)
		for _, rr := range rec.Rooms {
			mask, err := exitMaskFrom(rr.Exits)
			if err != nil {
				return nil, fmt.Errorf("content: dungeon %s: %w", rec.ID, err)
			}
			room := world.NewRoom(rec.ID, rr.Coord.toCoord(), rr.Keywords, rr.Display, rr.LongDesc, mask)
			for dirName, gw := range rr.Gateways {
				d2, ok := world.ParseDirection(dirName)
				if !ok {
					return nil, fmt.Errorf("content: dungeon %s: unknown gateway direction %q", rec.ID, dirName)
				}
				room.AddGateway(d2, world.Ref{DungeonID: gw.DungeonID, Coord: gw.Coord.toCoord()})
			}
			if err := d.PlaceRoom(room); err != nil {
				return nil, fmt.Errorf("content: dungeon %s: %w", rec.ID, err)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

type attributeGrowthRecord struct {
	Start  int `yaml:"start"`
	Growth int `yaml:"growth"`
}

func (r attributeGrowthRecord) toGrowth() world.AttributeGrowth {
	return world.AttributeGrowth{Start: r.Start, Growth: r.Growth}
}

type learnEntryRecord struct {
	AbilityID  string `yaml:"ability_id"`
	LearnLevel int    `yaml:"learn_level"`
}

type archetypeRecord struct {
	ID           string                 `yaml:"id"`
	Name         string                 `yaml:"name"`
	Strength     attributeGrowthRecord  `yaml:"strength"`
	Agility      attributeGrowthRecord  `yaml:"agility"`
	Intelligence attributeGrowthRecord  `yaml:"intelligence"`
	MaxHealth    attributeGrowthRecord  `yaml:"max_health"`
	MaxMana      attributeGrowthRecord  `yaml:"max_mana"`
	Abilities    []learnEntryRecord     `yaml:"abilities,omitempty"`
	Passives     []string               `yaml:"passives,omitempty"`
	Relations    map[string]string      `yaml:"relations,omitempty"`
}

func parseDamageRelation(s string) (world.DamageRelation, error) {
	switch strings.ToLower(s) {
	case "normal", "":
		return world.RelationNormal, nil
	case "resist":
		return world.RelationResist, nil
	case "immune":
		return world.RelationImmune, nil
	case "vulnerable":
		return world.RelationVulnerable, nil
	default:
		return 0, fmt.Errorf("content: unknown damage relation %q", s)
	}
}

func (r archetypeRecord) toArchetype() (*world.Archetype, error) {
	a := &world.Archetype{
		ID:           r.ID,
		Name:         r.Name,
		Strength:     r.Strength.toGrowth(),
		Agility:      r.Agility.toGrowth(),
		Intelligence: r.Intelligence.toGrowth(),
		MaxHealth:    r.MaxHealth.toGrowth(),
		MaxMana:      r.MaxMana.toGrowth(),
		Passives:     r.Passives,
	}
	for _, e := range r.Abilities {
		a.Abilities = append(a.Abilities, world.LearnEntry{AbilityID: e.AbilityID, LearnLevel: e.LearnLevel})
	}
	if len(r.Relations) > 0 {
		a.Relations = make(map[world.DamageType]world.DamageRelation, len(r.Relations))
		for dt, relName := range r.Relations {
			rel, err := parseDamageRelation(relName)
			if err != nil {
				return nil, fmt.Errorf("content: archetype %s: %w", r.ID, err)
			}
			a.Relations[world.DamageType(dt)] = rel
		}
	}
	return a, nil
}

// LoadArchetypes reads every *.yaml file under dataDir/world/<subdir>
// (normally "races" or "jobs") into Archetype values.
func LoadArchetypes(dataDir, subdir string) ([]*world.Archetype, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "world", subdir))
	if err != nil {
		return nil, err
	}
	names, err := fs.List("*.yaml")
	if err != nil {
		return nil, err
	}

	out := make([]*world.Archetype, 0, len(names))
	for _, fname := range names {
		var rec archetypeRecord
		if err := fs.Load(fname, &rec); err != nil {
			return nil, fmt.Errorf("content: loading %s/%s: %w", subdir, fname, err)
		}
		a, err := rec.toArchetype()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

type proficiencyCurveRecord struct {
	Use25  int `yaml:"use_25"`
	Use50  int `yaml:"use_50"`
	Use75  int `yaml:"use_75"`
	Use100 int `yaml:"use_100"`
}

type abilityRecord struct {
	ID          string                 `yaml:"id"`
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Curve       proficiencyCurveRecord `yaml:"curve"`
}

// LoadAbilities reads every *.yaml file under dataDir/world/abilities into
// Ability values, each with its proficiency table generated at load time.
func LoadAbilities(dataDir string) ([]*world.Ability, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "world", "abilities"))
	if err != nil {
		return nil, err
	}
	names, err := fs.List("*.yaml")
	if err != nil {
		return nil, err
	}

	out := make([]*world.Ability, 0, len(names))
	for _, fname := range names {
		var rec abilityRecord
		if err := fs.Load(fname, &rec); err != nil {
			return nil, fmt.Errorf("content: loading ability %s: %w", fname, err)
		}
		curve := world.ProficiencyCurve{
			Use25:  rec.Curve.Use25,
			Use50:  rec.Curve.Use50,
			Use75:  rec.Curve.Use75,
			Use100: rec.Curve.Use100,
		}
		out = append(out, world.NewAbility(rec.ID, rec.Name, rec.Description, curve))
	}
	return out, nil
}

// LoadHelpfiles reads every *.yaml file under dataDir/help directly into
// registry.Helpfile values; the on-disk shape already matches the struct's
// own yaml tags, so no separate record type is needed.
func LoadHelpfiles(dataDir string) ([]*registry.Helpfile, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "help"))
	if err != nil {
		return nil, err
	}
	names, err := fs.List("*.yaml")
	if err != nil {
		return nil, err
	}

	out := make([]*registry.Helpfile, 0, len(names))
	for _, fname := range names {
		hf := &registry.Helpfile{}
		if err := fs.Load(fname, hf); err != nil {
			return nil, fmt.Errorf("content: loading helpfile %s: %w", fname, err)
		}
		out = append(out, hf)
	}
	return out, nil
}
