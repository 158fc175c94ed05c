package command

// Kind names the type of value a named argument hole resolves to.
type Kind string

const (
	KindWord      Kind = "word"
	KindText      Kind = "text"
	KindNumber    Kind = "number"
	KindDirection Kind = "direction"

	// KindMob and KindMobRoom both resolve against the actor's current
	// room: a mob has no inventory scope to qualify against, so the bare
	// and room-qualified spellings are accepted as equivalent.
	KindMob     Kind = "mob"
	KindMobRoom Kind = "mob@room"

	// KindItem resolves against the actor's inventory first, then the
	// current room (the common "refer to something you're holding or see"
	// case). KindItemInventory restricts the search to carried items only.
	KindItem          Kind = "item"
	KindItemInventory Kind = "item@inventory"

	// KindObject is the most permissive kind: any entity (mob or item),
	// searched inventory-then-room by default, or restricted to one scope
	// by its qualified spellings.
	KindObject          Kind = "object"
	KindObjectRoom      Kind = "object@room"
	KindObjectInventory Kind = "object@inventory"
)

// parseKind resolves the kind name written inside an argument hole,
// reporting ok=false for anything not in the recognized set.
func parseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindWord, KindText, KindNumber, KindDirection,
		KindMob, KindMobRoom,
		KindItem, KindItemInventory,
		KindObject, KindObjectRoom, KindObjectInventory:
		return Kind(s), true
	default:
		return "", false
	}
}

// greedy reports whether this kind's regex capture should run to the end of
// the line (text) rather than stop at the next whitespace boundary.
func (k Kind) greedy() bool {
	return k == KindText
}
