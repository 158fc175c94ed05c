// Package narrate implements the act() narration primitive: rendering a
// triple of templates (user, target, room) against a participant binding
// and delivering each to the right recipients with a message-group tag.
package narrate

import (
	"strings"

	"mudforge/pkg/world"
)

// Group tags a delivered line for client-side filtering/retheming per
// character settings.
type Group string

const (
	GroupCombat          Group = "combat"
	GroupChannels        Group = "channels"
	GroupCommandResponse Group = "command-response"
	GroupAction          Group = "action"
)

// Line is one rendered message destined for one recipient.
type Line struct {
	Recipient *world.Mob
	Text      string
	Group     Group
}

// Options controls act()'s delivery beyond the three templates.
type Options struct {
	Group         Group
	ExcludeUser   bool
	ExcludeTarget bool
}

// Templates is the triple of narration strings: rendered for the acting
// user, for an optional direct target, and for bystanders in the room.
// Any may be empty, in which case that recipient class receives nothing.
type Templates struct {
	User   string
	Target string
	Room   string
}

// Act renders templates against user/target/room and returns the set of
// lines to deliver: the user template to user (unless excluded), the
// target template to target (unless excluded or absent), and the room
// template to every mob in room's contents that is neither user nor
// target. Placeholders {User}/{user}/{Target}/{target} are substituted
// with the matching participant's display name, capitalized for the
// uppercase form.
func Act(user *world.Mob, target *world.Mob, room *world.Room, tmpl Templates, opts Options) []Line {
	var lines []Line

	if tmpl.User != "" && !opts.ExcludeUser && user != nil {
		lines = append(lines, Line{Recipient: user, Text: substitute(tmpl.User, user, target), Group: opts.Group})
	}
	if tmpl.Target != "" && !opts.ExcludeTarget && target != nil {
		lines = append(lines, Line{Recipient: target, Text: substitute(tmpl.Target, user, target), Group: opts.Group})
	}
	if tmpl.Room != "" && room != nil {
		for _, e := range room.Contents() {
			m, ok := e.(*world.Mob)
			if !ok || m == user || m == target {
				continue
			}
			lines = append(lines, Line{Recipient: m, Text: substitute(tmpl.Room, user, target), Group: opts.Group})
		}
	}
	return lines
}

func substitute(tmpl string, user, target *world.Mob) string {
	r := strings.NewReplacer(
		"{User}", capitalizedName(user),
		"{user}", name(user),
		"{Target}", capitalizedName(target),
		"{target}", name(target),
	)
	return r.Replace(tmpl)
}

func name(m *world.Mob) string {
	if m == nil {
		return "someone"
	}
	return m.Display()
}

func capitalizedName(m *world.Mob) string {
	n := name(m)
	if n == "" {
		return n
	}
	return strings.ToUpper(n[:1]) + n[1:]
}
