package world

import "time"

// EchoMode controls whether the server echoes received lines back to the
// sender.
type EchoMode int

const (
	EchoClient EchoMode = iota
	EchoServer
	EchoOff
)

// Settings are the per-user rendering and behavior preferences carried on a
// Character, configurable via the `config` command.
type Settings struct {
	DefaultColor string
	AutoLook     bool
	Verbose      bool
	Brief        bool
	ColorEnabled bool
	EchoMode     EchoMode
	Prompt       string
}

// DefaultSettings returns the settings a newly created character starts
// with.
func DefaultSettings() Settings {
	return Settings{
		AutoLook:     true,
		Verbose:      true,
		ColorEnabled: true,
		EchoMode:     EchoClient,
		Prompt:       "%hh/%HHhp %mm/%MMmp> ",
	}
}

// Character is the persistent player envelope: credentials, settings, and
// the owning Mob. It is serialized separately from world state, one file
// per account.
type Character struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time
	Settings     Settings
	Mob          *Mob
}

// NewCharacter constructs a fresh character envelope for a newly registered
// account.
func NewCharacter(username, passwordHash string, mob *Mob) *Character {
	now := time.Now()
	return &Character{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLogin:    now,
		Settings:     DefaultSettings(),
		Mob:          mob,
	}
}

// Touch updates LastLogin to now, called each time the account
// authenticates.
func (c *Character) Touch() {
	c.LastLogin = time.Now()
}
