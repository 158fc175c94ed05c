package world

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Entity is the polymorphic base of every object in the world: rooms, mobs,
// items, equipment, and props. It is implemented by embedding Base, the way
// the teacher's GameObject interface is implemented by embedding common
// fields across Character/Item/Player.
//
// Related types:
//   - Base: the concrete struct most entities embed
//   - World: indexes live mobs and shopkeepers by ID
type Entity interface {
	ID() string
	Keywords() []string
	Display() string
	LongDescription() string
	Location() Entity
	Contents() []Entity
	SetLocation(Entity)
	addChild(Entity)
	removeChild(Entity)
	TemplateID() string
	restoreID(string)
}

// Base implements the common fields and containment bookkeeping shared by
// every concrete entity kind. Concrete types embed Base and add their own
// fields (Room adds coordinates, Mob adds attributes, etc.) matching the
// teacher's pattern of embedding shared struct fields across Character/Item.
type Base struct {
	mu          sync.RWMutex
	id          string
	keywords    []string
	displayName string
	longDesc    string
	templateID  string
	location    Entity
	contents    []Entity
}

// NewBase constructs a Base with a freshly generated runtime identity.
func NewBase(keywords, display, longDesc, templateID string) Base {
	return Base{
		id:          uuid.New().String(),
		keywords:    strings.Fields(keywords),
		displayName: display,
		longDesc:    longDesc,
		templateID:  templateID,
	}
}

func (b *Base) ID() string { return b.id }

// restoreID overwrites the runtime-generated ID with a persisted one, used
// only by Deserialize to preserve entity identity across a save/load cycle.
func (b *Base) restoreID(id string) {
	if id != "" {
		b.id = id
	}
}

func (b *Base) Keywords() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.keywords))
	copy(out, b.keywords)
	return out
}

func (b *Base) Display() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.displayName
}

func (b *Base) SetDisplay(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.displayName = name
}

func (b *Base) LongDescription() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.longDesc
}

func (b *Base) TemplateID() string { return b.templateID }

func (b *Base) Location() Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.location
}

// SetLocation updates only the location pointer. Callers wanting a
// containment-safe move should use Add, which keeps both sides of the
// relation synchronized; SetLocation exists so deserialize can rebuild the
// tree bottom-up without invoking the cycle check against a half-built tree.
func (b *Base) SetLocation(e Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.location = e
}

func (b *Base) Contents() []Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entity, len(b.contents))
	copy(out, b.contents)
	return out
}

func (b *Base) addChild(e Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contents = append(b.contents, e)
}

func (b *Base) removeChild(e Entity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, c := range b.contents {
		if c.ID() == e.ID() {
			b.contents = append(b.contents[:i], b.contents[i+1:]...)
			return
		}
	}
}

// MatchesKeyword reports whether any of the entity's keywords start with
// the given (case-insensitive) prefix, implementing the keyword-prefix
// match used by command argument resolution.
func (b *Base) MatchesKeyword(prefix string) bool {
	p := strings.ToLower(prefix)
	for _, kw := range b.Keywords() {
		if strings.HasPrefix(strings.ToLower(kw), p) {
			return true
		}
	}
	return false
}

// Container is implemented by entities that can hold other entities beyond
// plain containment bookkeeping: a capacity-limited item container.
type Container interface {
	Entity
	CapacityWeight() int
	CapacityCount() int
}

// ErrCycle is returned by Add when re-parenting would create a containment
// cycle.
var ErrCycle = fmt.Errorf("would create a containment cycle")

// ErrCapacity is returned by Add when the destination container's capacity
// would be exceeded.
var ErrCapacity = fmt.Errorf("container is full")

// Add re-parents child into parent, atomically removing it from any prior
// location and refusing moves that would create a cycle or exceed a
// container's declared capacity. This is the only way location/contents may
// be mutated outside of deserialization, preserving the invariant that
// parent.Contents() contains child iff child.Location() == parent.
func Add(parent, child Entity) error {
	if parent == nil || child == nil {
		return fmt.Errorf("add: nil parent or child")
	}
	if wouldCycle(parent, child) {
		return ErrCycle
	}
	if cont, ok := parent.(Container); ok {
		if err := checkCapacity(cont, child); err != nil {
			return err
		}
	}
	if old := child.Location(); old != nil {
		old.removeChild(child)
	}
	child.SetLocation(parent)
	parent.addChild(child)
	return nil
}

// Remove detaches child from its current parent, if any.
func Remove(child Entity) {
	if child == nil {
		return
	}
	if old := child.Location(); old != nil {
		old.removeChild(child)
	}
	child.SetLocation(nil)
}

// wouldCycle reports whether placing child under parent would make child
// reachable from itself by following Location() upward, i.e. parent is
// child or is already contained (directly or transitively) within child.
func wouldCycle(parent, child Entity) bool {
	if parent.ID() == child.ID() {
		return true
	}
	for cur := parent.Location(); cur != nil; cur = cur.Location() {
		if cur.ID() == child.ID() {
			return true
		}
	}
	return false
}

func checkCapacity(cont Container, child Entity) error {
	maxWeight := cont.CapacityWeight()
	maxCount := cont.CapacityCount()
	if maxWeight <= 0 && maxCount <= 0 {
		return nil
	}
	existing := cont.Contents()
	if maxCount > 0 && len(existing) >= maxCount {
		return ErrCapacity
	}
	if maxWeight > 0 {
		total := weightOf(child)
		for _, e := range existing {
			total += weightOf(e)
		}
		if total > maxWeight {
			return ErrCapacity
		}
	}
	return nil
}

func weightOf(e Entity) int {
	if w, ok := e.(interface{ Weight() int }); ok {
		return w.Weight()
	}
	return 0
}
