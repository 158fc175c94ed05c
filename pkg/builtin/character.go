package builtin

import (
	"fmt"
	"sort"
	"strings"

	"mudforge/pkg/command"
	"mudforge/pkg/world"
)

func characterCommands(deps Deps) []*command.Command {
	return []*command.Command{
		learnCommand(deps),
		abilitiesCommand(),
		bonusesCommand(),
		resistancesCommand(),
	}
}

// learnCommand grants an ability an actor's race or job already qualifies
// it for at its current level; the actual learn-set math is
// registry.archetypeLearnSet's, already applied once at spawn, so this only
// needs to re-check eligibility for an ability not yet in Mob.Learned.
func learnCommand(deps Deps) *command.Command {
	cmd := command.NewCommand("learn", "learn <ability:word>")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		id := args["ability"].Word
		ability, ok := deps.Reg.Abilities.Get(id)
		if !ok {
			return reportf(ctx, "there is no such ability.")
		}
		if _, already := ctx.Actor.Learned[ability.ID]; already {
			return reportf(ctx, "you already know %s.", ability.Name)
		}
		if !qualifiesFor(ctx.Actor, ability.ID) {
			return reportf(ctx, "you don't qualify to learn %s.", ability.Name)
		}
		ctx.Actor.UseAbility(ability, 0)
		return reportf(ctx, "You learn %s.", ability.Name)
	}
	return cmd
}

func qualifiesFor(m *world.Mob, abilityID string) bool {
	for _, entry := range learnEntriesOf(m.Race) {
		if entry.AbilityID == abilityID && entry.LearnLevel <= m.Level {
			return true
		}
	}
	for _, entry := range learnEntriesOf(m.Job) {
		if entry.AbilityID == abilityID && entry.LearnLevel <= m.Level {
			return true
		}
	}
	return false
}

func learnEntriesOf(a *world.Archetype) []world.LearnEntry {
	if a == nil {
		return nil
	}
	return a.Abilities
}

func abilitiesCommand() *command.Command {
	cmd := command.NewCommand("abilities", "ab~ilities")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		ids := make([]string, 0, len(ctx.Actor.Learned))
		for id := range ctx.Actor.Learned {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		if len(ids) == 0 {
			return reportf(ctx, "You haven't learned any abilities yet.")
		}
		var b strings.Builder
		b.WriteString("You know:\r\n")
		for _, id := range ids {
			la := ctx.Actor.Learned[id]
			b.WriteString(fmt.Sprintf("  %s (%d%%, %d uses)\r\n", id, la.Percent, la.Uses))
		}
		ctx.Tell(strings.TrimRight(b.String(), "\r\n"))
		return nil
	}
	return cmd
}

func bonusesCommand() *command.Command {
	cmd := command.NewCommand("bonuses", "bon~uses")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		d := ctx.Actor.Derive()
		ctx.Tell(fmt.Sprintf(
			"Strength %d, Agility %d, Intelligence %d\r\n"+
				"Attack Power %d, Defense %d, Crit Rate %d, Avoidance %d, Accuracy %d\r\n"+
				"Endurance %d, Spell Power %d, Wisdom %d, Resilience %d, Spirit %d\r\n"+
				"Max Health %d, Max Mana %d",
			d.Primary.Strength, d.Primary.Agility, d.Primary.Intelligence,
			d.Secondary.AttackPower, d.Secondary.Defense, d.Secondary.CritRate, d.Secondary.Avoidance, d.Secondary.Accuracy,
			d.Secondary.Endurance, d.Secondary.SpellPower, d.Secondary.Wisdom, d.Secondary.Resilience, d.Secondary.Spirit,
			d.MaxHealth, d.MaxMana,
		))
		return nil
	}
	return cmd
}

// resistancesCommand lists the actor's damage relationships, merging race
// and job tables the same way Mob.DamageRelationFor does (job wins ties).
func resistancesCommand() *command.Command {
	cmd := command.NewCommand("resistances", "res~istances")
	cmd.Execute = func(ctx *command.Context, args map[string]command.Value) error {
		merged := make(map[world.DamageType]world.DamageRelation)
		if ctx.Actor.Race != nil {
			for dt, r := range ctx.Actor.Race.Relations {
				merged[dt] = r
			}
		}
		if ctx.Actor.Job != nil {
			for dt, r := range ctx.Actor.Job.Relations {
				merged[dt] = r
			}
		}
		if len(merged) == 0 {
			return reportf(ctx, "You have no unusual resistances.")
		}
		types := make([]string, 0, len(merged))
		for dt := range merged {
			types = append(types, string(dt))
		}
		sort.Strings(types)
		var b strings.Builder
		b.WriteString("Damage relationships:\r\n")
		for _, dt := range types {
			b.WriteString(fmt.Sprintf("  %s: %s\r\n", dt, relationName(merged[world.DamageType(dt)])))
		}
		ctx.Tell(strings.TrimRight(b.String(), "\r\n"))
		return nil
	}
	return cmd
}

func relationName(r world.DamageRelation) string {
	switch r {
	case world.RelationResist:
		return "resist"
	case world.RelationImmune:
		return "immune"
	case world.RelationVulnerable:
		return "vulnerable"
	default:
		return "normal"
	}
}
