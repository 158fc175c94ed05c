package scheduler

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"mudforge/pkg/world"
)

// CombatRoller resolves the random component of a combat round: hit/miss
// and critical-strike rolls. Seedable for deterministic tests, mirroring
// the teacher's DiceRoller/NewDiceRollerWithSeed split.
type CombatRoller struct {
	rng *rand.Rand
}

// NewCombatRoller constructs a roller seeded from the current time.
func NewCombatRoller() *CombatRoller {
	return &CombatRoller{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewCombatRollerWithSeed constructs a roller with a fixed seed, for tests.
func NewCombatRollerWithSeed(seed int64) *CombatRoller {
	return &CombatRoller{rng: rand.New(rand.NewSource(seed))}
}

// percent returns an integer in [0, 100).
func (r *CombatRoller) percent() int {
	return r.rng.Intn(100)
}

// AttackResult describes the outcome of one resolved attack.
type AttackResult struct {
	Attacker *world.Mob
	Defender *world.Mob
	Hit      bool
	Crit     bool
	Damage   int
	Lethal   bool
	HitType  string
}

// damageType is the lone physical damage category routed through a
// defender's damage-relationship table; spell/elemental damage types are
// left to content-config abilities layered on top of this base resolver.
const damageType world.DamageType = "physical"

// ResolveAttack runs one combat round between attacker and defender: an
// avoidance-vs-accuracy roll decides hit/miss, a crit-rate roll doubles
// damage, attack-power minus defense (floored at 1 on a hit) is the base
// damage, and the defender's damage-relationship table scales the result,
// on every combat round tick.
func ResolveAttack(roller *CombatRoller, attacker, defender *world.Mob) AttackResult {
	result := AttackResult{Attacker: attacker, Defender: defender, HitType: attacker.MainHandHitType()}

	ad := attacker.Derive()
	dd := defender.Derive()

	hitChance := computeHitChance(ad, dd)
	if roller.percent() >= hitChance {
		return result
	}
	result.Hit = true

	crit := roller.percent() < ad.Secondary.CritRate
	result.Crit = crit

	result.Damage = computeDamage(ad, dd, crit, defender.DamageRelationFor(damageType))
	result.Lethal = defender.ApplyDamage(result.Damage)
	return result
}

// computeHitChance turns attacker accuracy and defender avoidance into a
// hit probability, clamped to [5, 95] so neither a miss nor a hit is ever
// a sure thing.
func computeHitChance(ad, dd world.Derived) int {
	chance := 100 - dd.Secondary.Avoidance + ad.Secondary.Accuracy
	if chance < 5 {
		chance = 5
	}
	if chance > 95 {
		chance = 95
	}
	return chance
}

// computeDamage is attacker attack-power minus defender defense, floored at
// 1, doubled on a critical strike, and scaled by the defender's
// damage-relationship multiplier for the incoming damage type.
func computeDamage(ad, dd world.Derived, crit bool, relation world.DamageRelation) int {
	base := ad.Secondary.AttackPower - dd.Secondary.Defense
	if base < 1 {
		base = 1
	}
	if crit {
		base *= 2
	}
	return int(float64(base) * relation.Multiplier())
}

// RunCombatTick resolves one attack for every mob with a live combat
// target, logging and defusing (clearing targets) any pair that errors
// rather than letting a single bad pair crash the tick. Lethal defenders have their combat-target
// references cleared from every referrer.
func RunCombatTick(w *world.World, roller *CombatRoller) []AttackResult {
	var results []AttackResult
	for _, attacker := range w.Mobs() {
		if attacker.IsDead() {
			continue
		}
		targetID := attacker.TargetID()
		if targetID == "" {
			continue
		}
		defender, ok := w.ResolveMob(targetID)
		if !ok || defender.IsDead() {
			attacker.ClearTarget()
			continue
		}

		result := safeResolveAttack(w, roller, attacker, defender)
		results = append(results, result)

		if result.Lethal {
			w.ClearTargetsOf(defender.ID())
		}
	}
	return results
}

// safeResolveAttack wraps ResolveAttack, defusing the pair (clearing the
// attacker's target) on panic rather than letting one bad pair take down
// the whole tick.
func safeResolveAttack(w *world.World, roller *CombatRoller, attacker, defender *world.Mob) (result AttackResult) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "RunCombatTick",
				"attacker": attacker.ID(),
				"defender": defender.ID(),
				"panic":    r,
			}).Error("combat round panicked, defusing pair")
			attacker.ClearTarget()
			result = AttackResult{Attacker: attacker, Defender: defender}
		}
	}()
	return ResolveAttack(roller, attacker, defender)
}
