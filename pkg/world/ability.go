package world

// ProficiencyCurve is the four breakpoint use-counts at which an ability
// reaches 25/50/75/100 percent proficiency.
type ProficiencyCurve struct {
	Use25, Use50, Use75, Use100 int
}

// Ability is an immutable descriptor of a named action and its proficiency
// curve over use count.
type Ability struct {
	ID          string
	Name        string
	Description string
	Curve       ProficiencyCurve

	table []int // generated once; table[uses] = percent, for uses in [0, Use100]
}

// NewAbility constructs an ability and generates its proficiency table.
func NewAbility(id, name, description string, curve ProficiencyCurve) *Ability {
	a := &Ability{ID: id, Name: name, Description: description, Curve: curve}
	a.table = generateProficiencyTable(curve)
	return a
}

// generateProficiencyTable linearly interpolates use-count -> percent across
// the four breakpoints, clamped to [0, 100]. table[0] == 0,
// table[Use25] == 25, table[Use50] == 50, table[Use75] == 75,
// table[Use100] == 100, and the table is monotone non-decreasing between
// breakpoints.
func generateProficiencyTable(c ProficiencyCurve) []int {
	max := c.Use100
	if max < 0 {
		max = 0
	}
	table := make([]int, max+1)
	breakpoints := []struct {
		uses, pct int
	}{
		{0, 0},
		{c.Use25, 25},
		{c.Use50, 50},
		{c.Use75, 75},
		{c.Use100, 100},
	}
	for i := 0; i < len(breakpoints)-1; i++ {
		lo, hi := breakpoints[i], breakpoints[i+1]
		span := hi.uses - lo.uses
		for u := lo.uses; u <= hi.uses && u <= max; u++ {
			var pct int
			if span <= 0 {
				pct = hi.pct
			} else {
				pct = lo.pct + (hi.pct-lo.pct)*(u-lo.uses)/span
			}
			if pct < 0 {
				pct = 0
			}
			if pct > 100 {
				pct = 100
			}
			if u >= 0 && u < len(table) {
				table[u] = pct
			}
		}
	}
	return table
}

// ProficiencyAt returns the percent proficiency for the given use count,
// clamping uses to the table's maximum entry.
func (a *Ability) ProficiencyAt(uses int) int {
	if len(a.table) == 0 {
		return 0
	}
	if uses < 0 {
		uses = 0
	}
	if uses >= len(a.table) {
		uses = len(a.table) - 1
	}
	return a.table[uses]
}

// LearnedAbility tracks a mob's use count and cached proficiency snapshot
// for one learned ability.
type LearnedAbility struct {
	Uses    int
	Percent int
}
