package world

import (
	"math/rand"
	"strings"

	"github.com/mb-14/gomarkov"
)

// barkChainOrder is the Markov chain order used for idle chatter: each
// generated word depends on the two words before it.
const barkChainOrder = 2

// barkMaxWords caps a generated bark line, so a chain that never reaches
// its end tag still produces something terse.
const barkMaxWords = 16

// barkChance is the probability a mob carrying a BarkGenerator speaks on
// any single regeneration tick.
const barkChance = 0.02

// BarkGenerator produces short ambient flavor lines for a mob from a
// Markov chain trained on that mob's own long description, so idle
// chatter reads like a paraphrase of its flavor text rather than a canned
// line repeated verbatim.
type BarkGenerator struct {
	chain *gomarkov.Chain
}

// NewBarkGenerator trains a chain on the words of corpus (normally a mob's
// long description) and returns it, or nil if corpus is too short to
// train from, in which case the mob simply never barks.
func NewBarkGenerator(corpus string) *BarkGenerator {
	words := strings.Fields(corpus)
	if len(words) <= barkChainOrder {
		return nil
	}
	chain := gomarkov.NewChain(barkChainOrder)
	chain.Add(words)
	return &BarkGenerator{chain: chain}
}

// Generate walks the chain from its start state and returns one line,
// capped at barkMaxWords words. Returns "" if g is nil.
func (g *BarkGenerator) Generate() string {
	if g == nil || g.chain == nil {
		return ""
	}
	seed := make([]string, barkChainOrder)
	for i := range seed {
		seed[i] = gomarkov.StartTag
	}
	words := make([]string, 0, barkMaxWords)
	for i := 0; i < barkMaxWords; i++ {
		next, err := g.chain.Generate(seed)
		if err != nil || next == gomarkov.EndTag {
			break
		}
		words = append(words, next)
		seed = append(seed[1:], next)
	}
	return strings.Join(words, " ")
}

// SetBarkGenerator attaches an idle-chatter generator to the mob, or
// clears it if gen is nil.
func (m *Mob) SetBarkGenerator(gen *BarkGenerator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bark = gen
}

// Bark rolls the mob's idle-chatter chance using r and, on a hit with a
// generator attached, returns a generated flavor line. Reports ok=false if
// the mob has no bark generator, the roll misses, or generation produced
// nothing.
func (m *Mob) Bark(r *rand.Rand) (line string, ok bool) {
	m.mu.RLock()
	gen := m.bark
	m.mu.RUnlock()
	if gen == nil || r.Float64() >= barkChance {
		return "", false
	}
	line = gen.Generate()
	return line, line != ""
}
