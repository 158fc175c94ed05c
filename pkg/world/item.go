package world

// Movable is an entity that may be relocated by commands (as opposed to a
// Prop, which is visible but fixed).
type Movable struct {
	Base
}

// Item is a movable with a monetary value and weight. A container item
// enforces a weight/count capacity on Add.
type Item struct {
	Movable
	value     int
	weight    int
	container bool
	capWeight int
	capCount  int
}

// NewItem constructs a plain, non-container item.
func NewItem(keywords, display, longDesc, templateID string, value, weight int) *Item {
	return &Item{
		Movable: Movable{Base: NewBase(keywords, display, longDesc, templateID)},
		value:   value,
		weight:  weight,
	}
}

// Value returns the item's monetary worth.
func (i *Item) Value() int { return i.value }

// Weight returns the item's weight in game units.
func (i *Item) Weight() int { return i.weight }

// MakeContainer flags the item as a container with the given weight/count
// capacity limits (0 meaning "unlimited" for that dimension).
func (i *Item) MakeContainer(capWeight, capCount int) {
	i.container = true
	i.capWeight = capWeight
	i.capCount = capCount
}

// IsContainer reports whether the item was flagged as a container.
func (i *Item) IsContainer() bool { return i.container }

// CapacityWeight implements Container.
func (i *Item) CapacityWeight() int { return i.capWeight }

// CapacityCount implements Container.
func (i *Item) CapacityCount() int { return i.capCount }

// Prop is a fixed decor entity: visible in a room's contents but never
// takeable, movable, or re-parented by ordinary commands.
type Prop struct {
	Base
}

// NewProp constructs a new decor prop.
func NewProp(keywords, display, longDesc, templateID string) *Prop {
	return &Prop{Base: NewBase(keywords, display, longDesc, templateID)}
}
