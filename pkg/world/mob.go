package world

import (
	"sync"
	"time"
)

// MobState tracks the handful of status bits that gate movement and
// actions: a mob may be blocked by being dead, rooted, or stunned.
// Dying and Dead are set together on lethal damage; Dying distinguishes a
// freshly killed mob (for one-shot death narration) from one that has
// already been handled and is merely corpsed.
type MobState struct {
	Dying   bool
	Dead    bool
	Rooted  bool
	Stunned bool
}

// blocksMovement reports whether the current state prevents stepping.
func (s MobState) blocksMovement() bool {
	return s.Dead || s.Rooted || s.Stunned
}

// Resources holds a mob's current depletable pools.
type Resources struct {
	Health    int
	Mana      int
	Exhaustion int
}

// Mob is a living entity: a player's avatar or an NPC. Derived combat
// statistics (max health/mana, secondary attributes) are never stored as
// ground truth; they are computed on demand by Derive from race, job,
// level, and equipped-item bonuses.
type Mob struct {
	Base

	mu sync.RWMutex

	Level      int
	Experience int
	gold       int

	Race *Race
	Job  *Job

	Current Resources

	Equipped map[Slot]*Equipment

	Learned map[string]*LearnedAbility

	State MobState

	targetID string

	inventory []Entity

	effects []Effect

	bark *BarkGenerator
}

// Effect is a timed buff or debuff carried on a mob, expired by the
// regeneration tick once ExpiresAt has passed.
type Effect struct {
	Name      string
	ExpiresAt time.Time
}

// NewMob constructs a mob of the given race/job at level 1, with full
// starting resources.
func NewMob(keywords, display, longDesc, templateID string, race, job *Race) *Mob {
	m := &Mob{
		Base:     NewBase(keywords, display, longDesc, templateID),
		Level:    1,
		Race:     race,
		Job:      job,
		Equipped: make(map[Slot]*Equipment),
		Learned:  make(map[string]*LearnedAbility),
	}
	d := m.Derive()
	m.Current.Health = d.MaxHealth
	m.Current.Mana = d.MaxMana
	return m
}

// Derived is the set of stats computed by Derive: never persisted, always
// recomputed from race+job+level+equipment.
type Derived struct {
	Primary   PrimaryBonuses
	Secondary SecondaryBonuses
	MaxHealth int
	MaxMana   int
}

// Derive recomputes every derived statistic from race start+growth,
// job start+growth, and the sum of equipped-item bonuses, per the core
// race/job/equipment attribute math.
func (m *Mob) Derive() Derived {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var d Derived
	if m.Race != nil {
		d.Primary.Strength += m.Race.Strength.At(m.Level)
		d.Primary.Agility += m.Race.Agility.At(m.Level)
		d.Primary.Intelligence += m.Race.Intelligence.At(m.Level)
		d.MaxHealth += m.Race.MaxHealth.At(m.Level)
		d.MaxMana += m.Race.MaxMana.At(m.Level)
	}
	if m.Job != nil {
		d.Primary.Strength += m.Job.Strength.At(m.Level)
		d.Primary.Agility += m.Job.Agility.At(m.Level)
		d.Primary.Intelligence += m.Job.Intelligence.At(m.Level)
		d.MaxHealth += m.Job.MaxHealth.At(m.Level)
		d.MaxMana += m.Job.MaxMana.At(m.Level)
	}
	for _, eq := range m.Equipped {
		if eq == nil {
			continue
		}
		d.Primary.Strength += eq.Primary.Strength
		d.Primary.Agility += eq.Primary.Agility
		d.Primary.Intelligence += eq.Primary.Intelligence
		d.Secondary.AttackPower += eq.Secondary.AttackPower
		d.Secondary.Vitality += eq.Secondary.Vitality
		d.Secondary.Defense += eq.Secondary.Defense
		d.Secondary.CritRate += eq.Secondary.CritRate
		d.Secondary.Avoidance += eq.Secondary.Avoidance
		d.Secondary.Accuracy += eq.Secondary.Accuracy
		d.Secondary.Endurance += eq.Secondary.Endurance
		d.Secondary.SpellPower += eq.Secondary.SpellPower
		d.Secondary.Wisdom += eq.Secondary.Wisdom
		d.Secondary.Resilience += eq.Secondary.Resilience
		d.Secondary.Spirit += eq.Secondary.Spirit
		d.MaxHealth += eq.Resource.MaxHealth
		d.MaxMana += eq.Resource.MaxMana
	}
	// Primary-attribute conversion: strength/agility/intelligence contribute
	// modestly to the secondary attributes that aren't directly itemized.
	d.Secondary.AttackPower += d.Primary.Strength / 2
	d.Secondary.SpellPower += d.Primary.Intelligence / 2
	d.Secondary.Avoidance += d.Primary.Agility / 2
	return d
}

// Regenerate advances the mob's health and mana toward their derived caps
// at rates scaled by endurance and wisdom, and decays exhaustion by one
// point, on every regeneration tick. A dead mob never
// regenerates. Returns the health and mana actually gained (capped by the
// derived maximums).
func (m *Mob) Regenerate() (healthGain, manaGain int) {
	d := m.Derive()
	healthRate := 1 + d.Secondary.Endurance/10
	manaRate := 1 + d.Secondary.Wisdom/10

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State.Dead {
		return 0, 0
	}

	before := m.Current.Health
	m.Current.Health += healthRate
	if m.Current.Health > d.MaxHealth {
		m.Current.Health = d.MaxHealth
	}
	healthGain = m.Current.Health - before

	beforeMana := m.Current.Mana
	m.Current.Mana += manaRate
	if m.Current.Mana > d.MaxMana {
		m.Current.Mana = d.MaxMana
	}
	manaGain = m.Current.Mana - beforeMana

	if m.Current.Exhaustion > 0 {
		m.Current.Exhaustion--
	}
	return healthGain, manaGain
}

// CanStep reports whether the mob may move in direction dir from its
// current room: the mob must be in a room, its state must not prevent
// movement, and Room.Neighbor must resolve a neighbor in dir (a gateway, or
// a permitted exit to a placed grid room). The destination room's own
// exits are not consulted.
func (m *Mob) CanStep(dir Direction) bool {
	m.mu.RLock()
	blocked := m.State.blocksMovement()
	m.mu.RUnlock()
	if blocked {
		return false
	}
	loc := m.Location()
	room, ok := loc.(*Room)
	if !ok {
		return false
	}
	_, ok = room.Neighbor(dir)
	return ok
}

// Health returns the mob's current health.
func (m *Mob) Health() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Current.Health
}

// IsDead reports whether the mob's state is Dead.
func (m *Mob) IsDead() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.State.Dead
}

// MainHandHitType returns the hit type of the mob's main-hand weapon, or
// "hit" if nothing (or a non-weapon) is equipped there.
func (m *Mob) MainHandHitType() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eq, ok := m.Equipped[SlotMainHand]
	if !ok || eq == nil || eq.HitType == "" {
		return "hit"
	}
	return eq.HitType
}

// SetTarget sets the mob's current combat target by ID. Combat targets are
// weak references: the referent may have been removed from the world, in
// which case World.ResolveMob returns ok=false and callers should clear the
// target.
func (m *Mob) SetTarget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targetID = id
}

// ClearTarget clears the mob's combat target.
func (m *Mob) ClearTarget() {
	m.SetTarget("")
}

// TargetID returns the current combat target's ID, or "" if none.
func (m *Mob) TargetID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.targetID
}

// Gold returns the amount of currency the mob is carrying.
func (m *Mob) Gold() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gold
}

// AddGold credits the mob with amount, for example a shop sale or a give.
// Negative amounts are ignored; use SpendGold to debit.
func (m *Mob) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gold += amount
}

// SpendGold debits amount from the mob's purse, reporting ok=false and
// leaving the balance untouched if it can't cover the cost.
func (m *Mob) SpendGold(amount int) (ok bool) {
	if amount <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gold < amount {
		return false
	}
	m.gold -= amount
	return true
}

// DamageRelationFor returns how this mob responds to a damage type: the
// job's relationship takes precedence over the race's when both specify
// one, giving each defender a single damage-relationship table.
func (m *Mob) DamageRelationFor(dt DamageType) DamageRelation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Job != nil {
		if r, ok := m.Job.Relations[dt]; ok {
			return r
		}
	}
	if m.Race != nil {
		if r, ok := m.Race.Relations[dt]; ok {
			return r
		}
	}
	return RelationNormal
}

// AddEffect applies a timed buff or debuff to the mob.
func (m *Mob) AddEffect(e Effect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effects = append(m.effects, e)
}

// Effects returns every effect currently active on the mob.
func (m *Mob) Effects() []Effect {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Effect, len(m.effects))
	copy(out, m.effects)
	return out
}

// ExpireEffects removes every effect whose ExpiresAt is at or before now,
// returning the ones removed. Called by the regeneration tick.
func (m *Mob) ExpireEffects(now time.Time) []Effect {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []Effect
	kept := m.effects[:0:0]
	for _, e := range m.effects {
		if !e.ExpiresAt.After(now) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	m.effects = kept
	return expired
}

// ApplyDamage subtracts amount (already relation-adjusted) from the mob's
// current health, floored at zero, and marks the mob Dying/Dead on lethal
// damage. Returns true if this call was the killing blow.
func (m *Mob) ApplyDamage(amount int) (lethal bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amount < 0 {
		amount = 0
	}
	m.Current.Health -= amount
	if m.Current.Health <= 0 {
		m.Current.Health = 0
		if !m.State.Dead {
			m.State.Dying = true
			m.State.Dead = true
			return true
		}
	}
	return false
}

// Equip places item into its declared slot, moving any item previously
// equipped there back into inventory. It refuses items whose declared slot
// does not match the requested slot.
func (m *Mob) Equip(item *Equipment, slot Slot) error {
	if item.Slot != slot {
		return ErrSlotMismatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.Equipped[slot]; ok && prev != nil {
		m.inventory = append(m.inventory, prev)
	}
	m.removeFromInventoryLocked(item.ID())
	m.Equipped[slot] = item
	return nil
}

// Unequip removes whatever is equipped in slot, returning it to inventory.
func (m *Mob) Unequip(slot Slot) (*Equipment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.Equipped[slot]
	if !ok || prev == nil {
		return nil, false
	}
	delete(m.Equipped, slot)
	m.inventory = append(m.inventory, prev)
	return prev, true
}

// ErrSlotMismatch is returned by Equip when an item's declared slot does
// not match the slot it is being equipped to.
var ErrSlotMismatch = &slotMismatchError{}

type slotMismatchError struct{}

func (e *slotMismatchError) Error() string { return "item's slot does not match requested slot" }

// AddToInventory adds item to the mob's carried inventory (not the world
// containment tree — inventory here is the flat list Equip/Unequip moves
// items through; for full containment semantics use Add(mob, item)).
func (m *Mob) AddToInventory(item Entity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inventory = append(m.inventory, item)
}

func (m *Mob) removeFromInventoryLocked(id string) {
	for i, e := range m.inventory {
		if e.ID() == id {
			m.inventory = append(m.inventory[:i], m.inventory[i+1:]...)
			return
		}
	}
}

// RemoveFromInventory removes and returns the carried item matching id, for
// example when a drop or give command hands an item off to a room or
// another mob. Reports ok=false if nothing carried matches id.
func (m *Mob) RemoveFromInventory(id string) (Entity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.inventory {
		if e.ID() == id {
			m.inventory = append(m.inventory[:i], m.inventory[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

// Inventory returns the mob's carried items.
func (m *Mob) Inventory() []Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entity, len(m.inventory))
	copy(out, m.inventory)
	return out
}

// UseAbility increments the use counter for abilityID by n and refreshes
// the cached proficiency snapshot from the ability's table.
func (m *Mob) UseAbility(a *Ability, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	la, ok := m.Learned[a.ID]
	if !ok {
		la = &LearnedAbility{}
		m.Learned[a.ID] = la
	}
	la.Uses += n
	la.Percent = a.ProficiencyAt(la.Uses)
}

// RemoveAbility clears both the use count and proficiency snapshot for an
// ability.
func (m *Mob) RemoveAbility(abilityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Learned, abilityID)
}

// CapacityWeight implements Container for mobs treated as inventory holders
// in the containment tree; mobs have no hard carry limit in the core model.
func (m *Mob) CapacityWeight() int { return 0 }

// CapacityCount implements Container.
func (m *Mob) CapacityCount() int { return 0 }
