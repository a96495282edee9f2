// Package history stores the append-only sequence of recorded samples.
//
// Three backends share the [Store] interface: an in-memory slice, a JSON
// file pair in the legacy browser layout, and SQLite. All of them
// enforce an optional retention cap by dropping the oldest samples inside
// the same operation as the append.
package history

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultRetention is the number of samples kept when no cap is configured.
const DefaultRetention = 500

type Store interface {
	Append(s Sample) error
	All() ([]Sample, error)
	Len() int
	Close() error
}

// Snapshotter is implemented by stores that keep a separate last-state
// record for fast reload.
type Snapshotter interface {
	LastSnapshot() (Sample, bool)
}

// Reset empties a store, if the backend supports it.
type Resetter interface {
	Reset() error
}

// Backend resolves a backend name or alias to "file", "sqlite" or "memory".
// An empty name selects the file store.
func Backend(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "file", "json":
		return "file", nil
	case "sqlite", "db":
		return "sqlite", nil
	case "memory", "mem":
		return "memory", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}

// Open creates a store for the named backend. path is ignored by memory.
func Open(backend, path string, retention int, logger *slog.Logger) (Store, error) {
	name, err := Backend(backend)
	if err != nil {
		return nil, err
	}
	switch name {
	case "sqlite":
		return OpenSQLite(path, retention, logger)
	case "memory":
		return NewMemory(retention), nil
	default:
		return OpenFile(path, retention, logger)
	}
}

// trim keeps the newest limit samples. limit <= 0 disables trimming.
func trim(samples []Sample, limit int) []Sample {
	if limit <= 0 || len(samples) <= limit {
		return samples
	}
	kept := make([]Sample, limit)
	copy(kept, samples[len(samples)-limit:])
	return kept
}
