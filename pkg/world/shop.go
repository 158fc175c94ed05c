package world

// RestockRule describes how one stocked item template replenishes on the
// restock tick: either up to a finite Minimum quantity, or unconditionally
// when Infinite is set. CycleDelay counts down in restock-tick units before
// the rule fires again.
type RestockRule struct {
	TemplateID string
	Minimum    int
	Infinite   bool
	CycleDelay int

	delay int
}

// Shopkeeper is a mob that sells from a stocked inventory, replenished by
// the restock tick per its RestockRules.
type Shopkeeper struct {
	Mob

	Rules []*RestockRule
	Stock map[string]int
}

// NewShopkeeper constructs a shopkeeper mob with no stock and no rules yet.
// Its idle-chatter generator, if any, is trained on its own longDesc, so a
// shopkeeper's rare regeneration-tick barks read like a paraphrase of its
// own flavor text.
func NewShopkeeper(keywords, display, longDesc, templateID string, race, job *Race) *Shopkeeper {
	m := NewMob(keywords, display, longDesc, templateID, race, job)
	m.SetBarkGenerator(NewBarkGenerator(longDesc))
	return &Shopkeeper{Mob: *m, Stock: make(map[string]int)}
}

// Restock advances every rule's cycle-delay counter and, for any rule whose
// delay has elapsed, replenishes its stock: to the rule's Minimum if
// finite, or unconditionally if Infinite, on every
// restock tick. Reports the templates that were replenished this call.
func (s *Shopkeeper) Restock() []string {
	var restocked []string
	for _, rule := range s.Rules {
		if rule.delay > 0 {
			rule.delay--
			continue
		}
		rule.delay = rule.CycleDelay

		if rule.Infinite {
			s.Stock[rule.TemplateID]++
			restocked = append(restocked, rule.TemplateID)
			continue
		}
		if s.Stock[rule.TemplateID] < rule.Minimum {
			s.Stock[rule.TemplateID] = rule.Minimum
			restocked = append(restocked, rule.TemplateID)
		}
	}
	return restocked
}
