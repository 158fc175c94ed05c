// Package persistence provides file-based data persistence for mudforge's
// world and account data.
//
// This package underlies every store that reads or writes YAML records to
// disk: player accounts (pkg/account), message boards (pkg/board), world
// content — dungeons, rooms, abilities, helpfiles (pkg/content) — and the
// module loader's cross-process lockfile (pkg/registry). It provides atomic
// writes, file locking, and YAML serialization so none of those callers
// need to reimplement crash safety themselves.
//
// # FileStore
//
// FileStore is the primary interface for persisting a record:
//
//	store, err := persistence.NewFileStore("/path/to/data/accounts")
//
//	// Save a record
//	err = store.Save("alice.yaml", accountRecord)
//
//	// Load a record
//	var loaded account.record
//	err = store.Load("alice.yaml", &loaded)
//
// # Atomic Writes
//
// All write operations use atomic file replacement to prevent corruption:
//
//  1. Data is written to a temporary file
//  2. Temporary file is synced to disk
//  3. Temporary file is renamed to target (atomic operation)
//
// This ensures that even if a crash occurs during save, the original file
// remains intact.
//
// # File Locking
//
// FileLock provides cross-process synchronization using flock syscalls:
//
//	lock := persistence.NewFileLock("/path/to/lockfile")
//
//	// Blocking lock acquisition
//	if err := lock.Lock(); err != nil {
//	    return err
//	}
//	defer lock.Unlock()
//
//	// Non-blocking lock attempt
//	acquired, err := lock.TryLock()
//	if !acquired {
//	    return errors.New("resource busy")
//	}
//
// # File Operations
//
// Additional file management methods:
//
//	// Check existence
//	if store.Exists("alice.yaml") {
//	    // File exists
//	}
//
//	// Delete file and associated lock
//	err := store.Delete("alice.yaml")
//
//	// List files matching pattern
//	files, err := store.List("*.yaml")
//
// # YAML Serialization
//
// Data is serialized using YAML for human-readable storage. Types should
// use yaml struct tags for field mapping:
//
//	type record struct {
//	    Username string `yaml:"username"`
//	    Level    int    `yaml:"level"`
//	}
//
// # Thread Safety
//
// FileStore operations are protected by internal mutexes for safe concurrent
// access within a single process. FileLock extends protection across processes.
//
// # Platform Support
//
// File locking uses Unix flock syscalls. The package has no build-tagged
// implementations for other platforms.
package persistence
