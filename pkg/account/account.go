// Package account persists the login envelope a telnet session
// authenticates against: username, bcrypt password hash, settings, and the
// owning world.Mob, one YAML file per account under dataDir/accounts.
package account

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mudforge/pkg/persistence"
	"mudforge/pkg/session"
	"mudforge/pkg/validation"
	"mudforge/pkg/world"
)

// ErrNotFound is returned by Load and Authenticate when no account exists
// under the given username.
var ErrNotFound = errors.New("account: no such username")

// ErrAlreadyExists is returned by Create when the username is already
// registered.
var ErrAlreadyExists = errors.New("account: username already registered")

// ErrWrongPassword is returned by Authenticate when the password does not
// match the stored hash.
var ErrWrongPassword = errors.New("account: wrong password")

type settingsRecord struct {
	DefaultColor string `yaml:"default_color,omitempty"`
	AutoLook     bool   `yaml:"auto_look"`
	Verbose      bool   `yaml:"verbose"`
	Brief        bool   `yaml:"brief"`
	ColorEnabled bool   `yaml:"color_enabled"`
	EchoMode     int    `yaml:"echo_mode"`
	Prompt       string `yaml:"prompt,omitempty"`
}

func toSettingsRecord(s world.Settings) settingsRecord {
	return settingsRecord{
		DefaultColor: s.DefaultColor,
		AutoLook:     s.AutoLook,
		Verbose:      s.Verbose,
		Brief:        s.Brief,
		ColorEnabled: s.ColorEnabled,
		EchoMode:     int(s.EchoMode),
		Prompt:       s.Prompt,
	}
}

func (r settingsRecord) toSettings() world.Settings {
	return world.Settings{
		DefaultColor: r.DefaultColor,
		AutoLook:     r.AutoLook,
		Verbose:      r.Verbose,
		Brief:        r.Brief,
		ColorEnabled: r.ColorEnabled,
		EchoMode:     world.EchoMode(r.EchoMode),
		Prompt:       r.Prompt,
	}
}

// characterFile is the on-disk shape of one account, wrapping the mob's own
// world.EntityRecord tree rather than duplicating its fields.
type characterFile struct {
	Username     string            `yaml:"username"`
	PasswordHash string            `yaml:"password_hash"`
	CreatedAt    time.Time         `yaml:"created_at"`
	LastLogin    time.Time         `yaml:"last_login"`
	Settings     settingsRecord    `yaml:"settings"`
	Mob          *world.EntityRecord `yaml:"mob"`
}

// Store is the process-wide account directory: a FileStore rooted at
// dataDir/accounts, one characterFile per registered username.
type Store struct {
	fs      *persistence.FileStore
	resolve world.ArchetypeResolver
}

// NewStore constructs an account store rooted at dataDir/accounts, creating
// the directory if it does not yet exist.
func NewStore(dataDir string, resolve world.ArchetypeResolver) (*Store, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "accounts"))
	if err != nil {
		return nil, err
	}
	return &Store{fs: fs, resolve: resolve}, nil
}

func filename(username string) string {
	return strings.ToLower(username) + ".yaml"
}

// Exists reports whether username is already registered.
func (s *Store) Exists(username string) bool {
	return s.fs.Exists(filename(username))
}

// Create registers a new account for username, hashing rawPassword and
// wrapping startingMob as its character. Rejects an invalid username or
// password, or a username already taken.
func (s *Store) Create(username, rawPassword string, startingMob *world.Mob) (*world.Character, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}
	if err := validation.Password(rawPassword); err != nil {
		return nil, err
	}
	if s.Exists(username) {
		return nil, ErrAlreadyExists
	}
	hash, err := session.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("account: hashing password: %w", err)
	}
	c := world.NewCharacter(username, hash, startingMob)
	if err := s.Save(c); err != nil {
		return nil, err
	}
	logrus.WithField("username", username).Info("account registered")
	return c, nil
}

// Load reads username's account and hydrates its mob, without checking a
// password. Used once a session has already authenticated in the same
// request (Authenticate) or for administrative inspection.
func (s *Store) Load(username string) (*world.Character, error) {
	if !s.Exists(username) {
		return nil, ErrNotFound
	}
	var cf characterFile
	if err := s.fs.Load(filename(username), &cf); err != nil {
		return nil, fmt.Errorf("account: loading %s: %w", username, err)
	}
	mobEntity, err := world.Deserialize(cf.Mob, s.resolve)
	if err != nil {
		return nil, fmt.Errorf("account: hydrating mob for %s: %w", username, err)
	}
	mob, ok := mobEntity.(*world.Mob)
	if !ok {
		return nil, fmt.Errorf("account: %s's stored entity is not a mob", username)
	}
	return &world.Character{
		Username:     cf.Username,
		PasswordHash: cf.PasswordHash,
		CreatedAt:    cf.CreatedAt,
		LastLogin:    cf.LastLogin,
		Settings:     cf.Settings.toSettings(),
		Mob:          mob,
	}, nil
}

// Authenticate loads username's account and checks rawPassword against its
// stored hash, touching LastLogin and persisting on success.
func (s *Store) Authenticate(username, rawPassword string) (*world.Character, error) {
	c, err := s.Load(username)
	if err != nil {
		return nil, err
	}
	if !session.CheckPassword(c.PasswordHash, rawPassword) {
		return nil, ErrWrongPassword
	}
	c.Touch()
	if err := s.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save serializes c's mob and writes the account file, overwriting any
// prior save.
func (s *Store) Save(c *world.Character) error {
	rec, err := world.Serialize(c.Mob)
	if err != nil {
		return fmt.Errorf("account: serializing %s's mob: %w", c.Username, err)
	}
	cf := characterFile{
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		CreatedAt:    c.CreatedAt,
		LastLogin:    c.LastLogin,
		Settings:     toSettingsRecord(c.Settings),
		Mob:          rec,
	}
	if err := s.fs.Save(filename(c.Username), &cf); err != nil {
		return fmt.Errorf("account: saving %s: %w", c.Username, err)
	}
	return nil
}
