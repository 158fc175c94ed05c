package board

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mudforge/pkg/persistence"
	"mudforge/pkg/registry"
)

// messagesFileSuffix names the split message-list file per board, so
// message growth never rewrites the small config file.
const messagesFileSuffix = ".messages.yaml"

type boardRecord struct {
	Name                string `yaml:"name"`
	DisplayName         string `yaml:"display_name"`
	Description         string `yaml:"description"`
	Permanent           bool   `yaml:"permanent"`
	ExpirationWindowMS  int64  `yaml:"expiration_window_ms,omitempty"`
	WritePermission     string `yaml:"write_permission"`
}

type messageRecord struct {
	ID       int             `yaml:"id"`
	Author   string          `yaml:"author"`
	Subject  string          `yaml:"subject,omitempty"`
	Content  string          `yaml:"content"`
	PostedAt time.Time       `yaml:"posted_at"`
	Targets  []string        `yaml:"targets,omitempty"`
	ReadBy   map[string]bool `yaml:"read_by,omitempty"`
}

type messagesFile struct {
	Messages []messageRecord `yaml:"messages"`
}

// Registry is the process-wide board registry: a uniqueness-enforcing
// Store of live boards backed by a FileStore under dataDir/boards.
type Registry struct {
	boards *registry.Store[*Board]
	fs     *persistence.FileStore
}

// NewRegistry constructs a board registry rooted at dataDir/boards,
// creating the directory if it does not yet exist.
func NewRegistry(dataDir string) (*Registry, error) {
	fs, err := persistence.NewFileStore(filepath.Join(dataDir, "boards"))
	if err != nil {
		return nil, err
	}
	return &Registry{boards: registry.NewStore[*Board](), fs: fs}, nil
}

// Load discovers every board config file under the registry's directory
// and hydrates a Board from it plus its sibling messages file, if any. A
// board whose messages file is absent loads with no messages. A board that
// fails to parse is logged and skipped; loading continues for the rest.
func (r *Registry) Load() error {
	names, err := r.fs.List("*.yaml")
	if err != nil {
		return err
	}
	for _, fname := range names {
		if strings.HasSuffix(fname, messagesFileSuffix) {
			continue
		}
		name := strings.TrimSuffix(fname, ".yaml")
		b, err := r.loadBoard(name)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Load",
				"board":    name,
				"error":    err,
			}).Error("skipping board that failed to load")
			continue
		}
		r.boards.Put(name, b)
	}
	return nil
}

func (r *Registry) loadBoard(name string) (*Board, error) {
	var rec boardRecord
	if err := r.fs.Load(name+".yaml", &rec); err != nil {
		return nil, err
	}

	perm, ok := ParsePrivilege(rec.WritePermission)
	if !ok {
		perm = PrivilegeAll
	}

	var messages []*Message
	if r.fs.Exists(name + messagesFileSuffix) {
		var mf messagesFile
		if err := r.fs.Load(name+messagesFileSuffix, &mf); err != nil {
			return nil, err
		}
		messages = make([]*Message, 0, len(mf.Messages))
		for _, mr := range mf.Messages {
			readBy := mr.ReadBy
			if readBy == nil {
				readBy = make(map[string]bool)
			}
			messages = append(messages, &Message{
				ID:       mr.ID,
				Author:   mr.Author,
				Subject:  mr.Subject,
				Content:  mr.Content,
				PostedAt: mr.PostedAt,
				Targets:  mr.Targets,
				ReadBy:   readBy,
			})
		}
	}

	return Restore(rec.Name, rec.DisplayName, rec.Description, rec.Permanent,
		time.Duration(rec.ExpirationWindowMS)*time.Millisecond, perm, messages), nil
}

// Save persists b's config and message files, clearing its dirty flag on
// success.
func (r *Registry) Save(b *Board) error {
	rec := boardRecord{
		Name:               b.Name,
		DisplayName:        b.DisplayName,
		Description:        b.Description,
		Permanent:          b.Permanent,
		ExpirationWindowMS: b.ExpirationWindow.Milliseconds(),
		WritePermission:    b.WritePermission.String(),
	}
	if err := r.fs.Save(b.Name+".yaml", rec); err != nil {
		return err
	}

	messages := b.Messages()
	mf := messagesFile{Messages: make([]messageRecord, 0, len(messages))}
	for _, m := range messages {
		mf.Messages = append(mf.Messages, messageRecord{
			ID: m.ID, Author: m.Author, Subject: m.Subject, Content: m.Content,
			PostedAt: m.PostedAt, Targets: m.Targets, ReadBy: m.ReadBy,
		})
	}
	if err := r.fs.Save(b.Name+messagesFileSuffix, mf); err != nil {
		return err
	}

	b.ClearDirty()
	return nil
}

// SaveDirty persists every board in the registry that has unpersisted
// changes. Suitable for a periodic re-persist job.
func (r *Registry) SaveDirty() error {
	for _, b := range r.boards.All() {
		if !b.Dirty() {
			continue
		}
		if err := r.Save(b); err != nil {
			return err
		}
	}
	return nil
}

// Put registers or overwrites board b under its own name.
func (r *Registry) Put(b *Board) {
	r.boards.Put(b.Name, b)
}

// Get looks up a board by name.
func (r *Registry) Get(name string) (*Board, bool) {
	return r.boards.Get(name)
}

// All returns every registered board, ordered by name.
func (r *Registry) All() []*Board {
	return r.boards.All()
}
