package world

import "fmt"

// EntityRecord is the reference-preserving, type-tagged serialization of one
// entity and its contents, in the two-phase
// serialize/deserialize: location is never recorded (it is reconstructed by
// the parent on load), and the container-ship of this struct IS the
// containment tree.
type EntityRecord struct {
	Type       string                  `yaml:"type"`
	ID         string                  `yaml:"id"`
	Keywords   string                  `yaml:"keywords"`
	Display    string                  `yaml:"display"`
	LongDesc   string                  `yaml:"long_desc,omitempty"`
	TemplateID string                  `yaml:"template_id,omitempty"`
	Contents   []*EntityRecord         `yaml:"contents,omitempty"`

	// Room fields
	DungeonID string   `yaml:"dungeon_id,omitempty"`
	Coord     *Coord   `yaml:"coord,omitempty"`
	Exits     ExitMask `yaml:"exits,omitempty"`

	// Item/Equipment fields
	Value     int  `yaml:"value,omitempty"`
	Weight    int  `yaml:"weight,omitempty"`
	Container bool `yaml:"container,omitempty"`
	CapWeight int  `yaml:"cap_weight,omitempty"`
	CapCount  int  `yaml:"cap_count,omitempty"`

	Slot      *Slot            `yaml:"slot,omitempty"`
	Primary   *PrimaryBonuses  `yaml:"primary,omitempty"`
	Secondary *SecondaryBonuses `yaml:"secondary,omitempty"`
	Resource  *ResourceBonuses `yaml:"resource,omitempty"`
	HitType   string           `yaml:"hit_type,omitempty"`

	// Mob fields
	Level      int                         `yaml:"level,omitempty"`
	Experience int                         `yaml:"experience,omitempty"`
	Gold       int                         `yaml:"gold,omitempty"`
	RaceID     string                      `yaml:"race_id,omitempty"`
	JobID      string                      `yaml:"job_id,omitempty"`
	Health     int                         `yaml:"health,omitempty"`
	Mana       int                         `yaml:"mana,omitempty"`
	Exhaustion int                         `yaml:"exhaustion,omitempty"`
	Equipped   map[string]*EntityRecord    `yaml:"equipped,omitempty"`
	Learned    map[string]*LearnedAbility  `yaml:"learned,omitempty"`
	Inventory  []*EntityRecord             `yaml:"inventory,omitempty"`
}

// ArchetypeResolver resolves race/job IDs back to loaded archetypes during
// deserialization (supplied by the caller's registry).
type ArchetypeResolver func(id string) (*Archetype, bool)

// Serialize walks e's containment tree and produces a reference-preserving
// record. Equipped items are recorded per slot on Mob records; location is
// never serialized.
func Serialize(e Entity) (*EntityRecord, error) {
	rec := &EntityRecord{
		ID:         e.ID(),
		Display:    e.Display(),
		LongDesc:   e.LongDescription(),
		TemplateID: e.TemplateID(),
	}
	for _, kw := range e.Keywords() {
		if rec.Keywords != "" {
			rec.Keywords += " "
		}
		rec.Keywords += kw
	}

	switch v := e.(type) {
	case *Room:
		rec.Type = "Room"
		rec.DungeonID = v.Ref().DungeonID
		c := v.Coord
		rec.Coord = &c
		rec.Exits = v.Exits
	case *Weapon:
		rec.Type = "Weapon"
		serializeEquipmentFields(rec, &v.Equipment)
		rec.HitType = v.HitType
	case *Armor:
		rec.Type = "Armor"
		serializeEquipmentFields(rec, &v.Equipment)
	case *Equipment:
		rec.Type = "Equipment"
		serializeEquipmentFields(rec, v)
	case *Item:
		rec.Type = "Item"
		rec.Value = v.Value()
		rec.Weight = v.Weight()
		rec.Container = v.IsContainer()
		rec.CapWeight = v.CapacityWeight()
		rec.CapCount = v.CapacityCount()
	case *Prop:
		rec.Type = "Prop"
	case *Mob:
		rec.Type = "Mob"
		rec.Level = v.Level
		rec.Experience = v.Experience
		rec.Gold = v.Gold()
		if v.Race != nil {
			rec.RaceID = v.Race.ID
		}
		if v.Job != nil {
			rec.JobID = v.Job.ID
		}
		rec.Health = v.Current.Health
		rec.Mana = v.Current.Mana
		rec.Exhaustion = v.Current.Exhaustion
		rec.Learned = v.Learned
		rec.Equipped = make(map[string]*EntityRecord)
		for slot, eq := range v.Equipped {
			if eq == nil {
				continue
			}
			er, err := Serialize(eq)
			if err != nil {
				return nil, err
			}
			rec.Equipped[slot.String()] = er
		}
		for _, item := range v.Inventory() {
			ir, err := Serialize(item)
			if err != nil {
				return nil, err
			}
			rec.Inventory = append(rec.Inventory, ir)
		}
	default:
		return nil, fmt.Errorf("serialize: unknown entity type %T", e)
	}

	for _, child := range e.Contents() {
		cr, err := Serialize(child)
		if err != nil {
			return nil, err
		}
		rec.Contents = append(rec.Contents, cr)
	}
	return rec, nil
}

func serializeEquipmentFields(rec *EntityRecord, eq *Equipment) {
	rec.Value = eq.Value()
	rec.Weight = eq.Weight()
	slot := eq.Slot
	rec.Slot = &slot
	p := eq.Primary
	rec.Primary = &p
	s := eq.Secondary
	rec.Secondary = &s
	r := eq.Resource
	rec.Resource = &r
}

// Deserialize reconstructs an entity graph from a record, type-tagged by
// rec.Type. Unknown tags are a fatal load error for that entity; an error
// returned by Deserialize should be logged and the sibling entity skipped
// by the caller rather than aborting the whole load.
func Deserialize(rec *EntityRecord, resolve ArchetypeResolver) (Entity, error) {
	if rec == nil {
		return nil, fmt.Errorf("deserialize: nil record")
	}

	var e Entity
	switch rec.Type {
	case "Room":
		coord := Coord{}
		if rec.Coord != nil {
			coord = *rec.Coord
		}
		room := NewRoom(rec.DungeonID, coord, rec.Keywords, rec.Display, rec.LongDesc, rec.Exits)
		e = room
	case "Prop":
		e = NewProp(rec.Keywords, rec.Display, rec.LongDesc, rec.TemplateID)
	case "Item":
		item := NewItem(rec.Keywords, rec.Display, rec.LongDesc, rec.TemplateID, rec.Value, rec.Weight)
		if rec.Container {
			item.MakeContainer(rec.CapWeight, rec.CapCount)
		}
		e = item
	case "Equipment", "Weapon", "Armor":
		slot := SlotHead
		if rec.Slot != nil {
			slot = *rec.Slot
		}
		eq := NewEquipment(rec.Keywords, rec.Display, rec.LongDesc, rec.TemplateID, rec.Value, rec.Weight, slot)
		if rec.Primary != nil {
			eq.Primary = *rec.Primary
		}
		if rec.Secondary != nil {
			eq.Secondary = *rec.Secondary
		}
		if rec.Resource != nil {
			eq.Resource = *rec.Resource
		}
		switch rec.Type {
		case "Weapon":
			eq.HitType = rec.HitType
			e = &Weapon{Equipment: *eq, HitType: rec.HitType}
		case "Armor":
			e = &Armor{Equipment: *eq}
		default:
			e = eq
		}
	case "Mob":
		var race, job *Archetype
		if resolve != nil {
			if rec.RaceID != "" {
				race, _ = resolve(rec.RaceID)
			}
			if rec.JobID != "" {
				job, _ = resolve(rec.JobID)
			}
		}
		mob := NewMob(rec.Keywords, rec.Display, rec.LongDesc, rec.TemplateID, race, job)
		mob.Level = rec.Level
		mob.Experience = rec.Experience
		mob.AddGold(rec.Gold)
		mob.Current = Resources{Health: rec.Health, Mana: rec.Mana, Exhaustion: rec.Exhaustion}
		if rec.Learned != nil {
			mob.Learned = rec.Learned
		}
		for slotName, er := range rec.Equipped {
			child, err := Deserialize(er, resolve)
			if err != nil {
				return nil, err
			}
			eq, ok := asEquipment(child)
			if !ok {
				continue
			}
			slot := slotFromName(slotName)
			mob.Equipped[slot] = eq
		}
		for _, ir := range rec.Inventory {
			child, err := Deserialize(ir, resolve)
			if err != nil {
				return nil, err
			}
			mob.AddToInventory(child)
		}
		e = mob
	default:
		return nil, fmt.Errorf("deserialize: unknown entity type %q", rec.Type)
	}

	e.restoreID(rec.ID)

	for _, cr := range rec.Contents {
		child, err := Deserialize(cr, resolve)
		if err != nil {
			// Skip the faulty child; continue hydrating siblings.
			continue
		}
		if err := Add(e, child); err != nil {
			continue
		}
	}
	return e, nil
}

func asEquipment(e Entity) (*Equipment, bool) {
	switch v := e.(type) {
	case *Weapon:
		return &v.Equipment, true
	case *Armor:
		return &v.Equipment, true
	case *Equipment:
		return v, true
	default:
		return nil, false
	}
}

func slotFromName(name string) Slot {
	for _, s := range AllSlots() {
		if s.String() == name {
			return s
		}
	}
	return SlotHead
}
