package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/san-kum/statefield/internal/dimension"
)

const (
	historyFile  = "history.json"
	snapshotFile = "last.json"
)

type snapshot struct {
	State     dimension.StateVector `json:"state"`
	Timestamp int64                 `json:"timestamp"`
}

// File keeps the whole history as a JSON array in baseDir/history.json and
// the newest sample in baseDir/last.json. Every append rewrites both files.
type File struct {
	mu        sync.Mutex
	baseDir   string
	retention int
	samples   []Sample
	logger    *slog.Logger
	closed    bool
}

// OpenFile loads any existing history under baseDir. Missing or unreadable
// files start an empty history; they are logged, never returned.
func OpenFile(baseDir string, retention int, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	f := &File{baseDir: baseDir, retention: retention, logger: logger}
	f.samples = trim(f.load(), retention)
	return f, nil
}

func (f *File) load() []Sample {
	path := filepath.Join(f.baseDir, historyFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("history unreadable, starting empty", "path", path, "error", err)
		}
		return nil
	}
	return DecodeSamples(data, f.logger)
}

// DecodeSamples parses a JSON array of samples, skipping entries that do not
// decode. A document that is not an array yields an empty history.
func DecodeSamples(data []byte, logger *slog.Logger) []Sample {
	if logger == nil {
		logger = slog.Default()
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("history malformed, starting empty", "error", err)
		return nil
	}

	samples := make([]Sample, 0, len(raw))
	skipped := 0
	for _, entry := range raw {
		var s Sample
		if err := json.Unmarshal(entry, &s); err != nil {
			skipped++
			continue
		}
		samples = append(samples, s)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed samples", "count", skipped)
	}
	return samples
}

func (f *File) Append(s Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	next := trim(append(f.samples, s), f.retention)
	if err := f.save(next); err != nil {
		return err
	}
	f.samples = next
	return nil
}

func (f *File) save(samples []Sample) error {
	if err := writeJSON(filepath.Join(f.baseDir, historyFile), samples); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	last, ok := Last(samples)
	if !ok {
		return nil
	}
	if err := writeJSON(filepath.Join(f.baseDir, snapshotFile), snapshot{State: last.State, Timestamp: last.Timestamp}); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// writeJSON writes through a temp file so a crash never leaves a truncated
// history behind.
func writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *File) All() ([]Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	out := make([]Sample, len(f.samples))
	copy(out, f.samples)
	return out, nil
}

func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.samples)
}

// LastSnapshot reads last.json, falling back to the newest loaded sample.
func (f *File) LastSnapshot() (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(f.baseDir, snapshotFile))
	if err == nil {
		var snap snapshot
		if json.Unmarshal(data, &snap) == nil && snap.State != nil {
			return Sample{Timestamp: snap.Timestamp, State: snap.State}, true
		}
	}
	return Last(f.samples)
}

func (f *File) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range []string{historyFile, snapshotFile} {
		if err := os.Remove(filepath.Join(f.baseDir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	f.samples = nil
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
