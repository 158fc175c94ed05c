package registry

import "strings"

// Helpfile is a single entry loaded from data/help/*.yaml: a topic, its
// body text, and the alternate names a player may type to reach it.
type Helpfile struct {
	Topic   string   `yaml:"topic"`
	Aliases []string `yaml:"aliases"`
	Body    string   `yaml:"body"`
	SeeAlso []string `yaml:"see_also"`
}

// Helpfiles indexes helpfiles by canonical topic and by every alias, so a
// lookup by either resolves to the same entry.
type Helpfiles struct {
	byTopic *Store[*Helpfile]
	byAlias *Store[*Helpfile]
}

// NewHelpfiles constructs an empty helpfile index.
func NewHelpfiles() *Helpfiles {
	return &Helpfiles{
		byTopic: NewStore[*Helpfile](),
		byAlias: NewStore[*Helpfile](),
	}
}

// Add registers h under its topic and every alias, overwriting any existing
// entry under the same key (help data is reloadable).
func (h *Helpfiles) Add(hf *Helpfile) {
	key := strings.ToLower(hf.Topic)
	h.byTopic.Put(key, hf)
	for _, alias := range hf.Aliases {
		h.byAlias.Put(strings.ToLower(alias), hf)
	}
}

// Lookup resolves a help query against topics first, then aliases, both
// case-insensitive.
func (h *Helpfiles) Lookup(query string) (*Helpfile, bool) {
	key := strings.ToLower(query)
	if hf, ok := h.byTopic.Get(key); ok {
		return hf, true
	}
	return h.byAlias.Get(key)
}

// Topics returns every canonical topic name, sorted.
func (h *Helpfiles) Topics() []string {
	return h.byTopic.IDs()
}

// Search returns every helpfile whose topic or body contains query as a
// case-insensitive substring, ordered by topic. Used by "help search".
func (h *Helpfiles) Search(query string) []*Helpfile {
	q := strings.ToLower(query)
	var out []*Helpfile
	for _, hf := range h.byTopic.All() {
		if strings.Contains(strings.ToLower(hf.Topic), q) || strings.Contains(strings.ToLower(hf.Body), q) {
			out = append(out, hf)
		}
	}
	return out
}
