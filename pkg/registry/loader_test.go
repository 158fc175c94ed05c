package registry

import (
	"path/filepath"
	"testing"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLoaderRunsInDependencyOrder(t *testing.T) {
	l := newTestLoader(t)
	var order []string

	l.Register(Module{Name: "boards", DependsOn: []string{"locations"}, Load: func() error {
		order = append(order, "boards")
		return nil
	}})
	l.Register(Module{Name: "locations", DependsOn: []string{"dungeons"}, Load: func() error {
		order = append(order, "locations")
		return nil
	}})
	l.Register(Module{Name: "dungeons", Load: func() error {
		order = append(order, "dungeons")
		return nil
	}})

	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	if pos["dungeons"] > pos["locations"] || pos["locations"] > pos["boards"] {
		t.Fatalf("modules ran out of dependency order: %v", order)
	}
}

func TestLoaderRejectsUnknownDependency(t *testing.T) {
	l := newTestLoader(t)
	l.Register(Module{Name: "a", DependsOn: []string{"missing"}, Load: func() error { return nil }})
	if err := l.Run(); err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestLoaderRejectsCycle(t *testing.T) {
	l := newTestLoader(t)
	l.Register(Module{Name: "a", DependsOn: []string{"b"}, Load: func() error { return nil }})
	l.Register(Module{Name: "b", DependsOn: []string{"a"}, Load: func() error { return nil }})
	if err := l.Run(); err == nil {
		t.Fatal("expected error for dependency cycle")
	}
}

func TestLoaderPropagatesLoadError(t *testing.T) {
	l := newTestLoader(t)
	l.Register(Module{Name: "a", Load: func() error { return errBoom }})
	if err := l.Run(); err == nil {
		t.Fatal("expected Run to propagate module load error")
	}
}

func TestLoaderRejectsDuplicateModuleName(t *testing.T) {
	l := newTestLoader(t)
	l.Register(Module{Name: "a", Load: func() error { return nil }})
	l.Register(Module{Name: "a", Load: func() error { return nil }})
	if err := l.Run(); err == nil {
		t.Fatal("expected error for duplicate module name")
	}
}

func TestLoaderLockBlocksSecondAcquire(t *testing.T) {
	dir := t.TempDir()
	l1, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l1.Close()
	if err := l1.Lock(); err != nil {
		t.Fatalf("first Lock: %v", err)
	}

	l2, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l2.Close()

	ok, err := l2.lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if ok {
		t.Fatal("expected second lock attempt to fail while first is held")
	}
}

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }
