package registry

import (
	"fmt"
	"path/filepath"

	"mudforge/pkg/persistence"

	"github.com/sirupsen/logrus"
)

// Module is a named unit of boot-time loading (dungeons, archetypes,
// abilities, helpfiles, boards, ...). Each module declares the ids of the
// modules it depends on; the Loader invokes Load in an order that respects
// those dependencies.
type Module struct {
	Name      string
	DependsOn []string
	Load      func() error
}

// Loader discovers a fixed set of modules, computes a topological order on
// their declared dependencies, and invokes each loader exactly once. A
// lockfile under dataDir prevents two server processes from loading (and
// thus writing) the same data directory concurrently.
type Loader struct {
	dataDir string
	lock    *persistence.FileLock
	modules []Module
}

// NewLoader constructs a loader rooted at dataDir. Call Lock before Run and
// Close when done, regardless of whether Run succeeded.
func NewLoader(dataDir string) (*Loader, error) {
	lock, err := persistence.NewFileLock(filepath.Join(dataDir, "registry"))
	if err != nil {
		return nil, fmt.Errorf("registry: creating boot lock: %w", err)
	}
	return &Loader{dataDir: dataDir, lock: lock}, nil
}

// Register adds a module to the loader's work list. Order of registration
// does not matter; dependency order is computed in Run.
func (l *Loader) Register(m Module) {
	l.modules = append(l.modules, m)
}

// Lock acquires the boot lockfile, blocking until any other process holding
// it releases it.
func (l *Loader) Lock() error {
	return l.lock.Lock()
}

// Close releases the boot lockfile and closes its handle.
func (l *Loader) Close() error {
	return l.lock.Close()
}

// Run invokes every registered module's Load function exactly once, in an
// order where a module always runs after everything it depends on. It
// fails fast on the first module whose dependencies cannot be satisfied
// (unknown dependency name, or a dependency cycle) or whose Load returns an
// error.
func (l *Loader) Run() error {
	byName := make(map[string]Module, len(l.modules))
	for _, m := range l.modules {
		if _, dup := byName[m.Name]; dup {
			return fmt.Errorf("registry: module %q registered more than once", m.Name)
		}
		byName[m.Name] = m
	}
	for _, m := range l.modules {
		for _, dep := range m.DependsOn {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("registry: module %q depends on unknown module %q", m.Name, dep)
			}
		}
	}

	order, err := topoSort(l.modules)
	if err != nil {
		return err
	}

	for _, name := range order {
		m := byName[name]
		logrus.WithFields(logrus.Fields{
			"function": "Run",
			"package":  "registry",
			"module":   m.Name,
		}).Debug("loading module")
		if err := m.Load(); err != nil {
			return fmt.Errorf("registry: loading module %q: %w", m.Name, err)
		}
	}
	return nil
}

// topoSort orders modules so each appears after every module it depends on,
// detecting cycles via the standard white/gray/black DFS coloring.
func topoSort(modules []Module) ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	byName := make(map[string]Module, len(modules))
	color := make(map[string]int, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
		color[m.Name] = white
	}

	var order []string
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("registry: dependency cycle detected: %v", append(path, name))
		}
		color[name] = gray
		for _, dep := range byName[name].DependsOn {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, m := range modules {
		if err := visit(m.Name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
