package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/statefield/internal/dimension"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS samples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sample_id  TEXT NOT NULL,
	timestamp  INTEGER NOT NULL,
	state_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_samples_timestamp ON samples(timestamp);
`

const (
	metaLastState     = "last_state"
	metaLastTimestamp = "last_timestamp"
)

type sampleRow struct {
	SampleID  string `db:"sample_id"`
	Timestamp int64  `db:"timestamp"`
	StateJSON string `db:"state_json"`
}

// SQLite persists samples in a single database file.
type SQLite struct {
	mu        sync.Mutex
	conn      *sqlx.DB
	retention int
	logger    *slog.Logger
}

func OpenSQLite(path string, retention int, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLite{conn: conn, retention: retention, logger: logger}, nil
}

// Append inserts the sample, evicts beyond the retention cap and updates the
// last-state snapshot in one transaction.
func (s *SQLite) Append(sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}

	stateJSON, err := json.Marshal(sample.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO samples (sample_id, timestamp, state_json) VALUES (?, ?, ?)",
		uuid.New().String(), sample.Timestamp, string(stateJSON),
	); err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}

	if s.retention > 0 {
		if _, err := tx.Exec(
			"DELETE FROM samples WHERE id NOT IN (SELECT id FROM samples ORDER BY id DESC LIMIT ?)",
			s.retention,
		); err != nil {
			return fmt.Errorf("evict samples: %w", err)
		}
	}

	for key, value := range map[string]string{
		metaLastState:     string(stateJSON),
		metaLastTimestamp: strconv.FormatInt(sample.Timestamp, 10),
	} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) All() ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, ErrClosed
	}

	var rows []sampleRow
	if err := s.conn.Select(&rows, "SELECT sample_id, timestamp, state_json FROM samples ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}

	samples := make([]Sample, 0, len(rows))
	for _, r := range rows {
		st, ok := decodeState(r.StateJSON)
		if !ok {
			s.logger.Warn("skipping malformed sample row", "sample_id", r.SampleID)
			continue
		}
		samples = append(samples, Sample{Timestamp: r.Timestamp, State: st})
	}
	return samples, nil
}

func (s *SQLite) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return 0
	}
	var n int
	if err := s.conn.Get(&n, "SELECT COUNT(*) FROM samples"); err != nil {
		return 0
	}
	return n
}

func (s *SQLite) LastSnapshot() (Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return Sample{}, false
	}

	var stateJSON, tsText string
	if err := s.conn.Get(&stateJSON, "SELECT value FROM meta WHERE key = ?", metaLastState); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("read last state", "error", err)
		}
		return Sample{}, false
	}
	if err := s.conn.Get(&tsText, "SELECT value FROM meta WHERE key = ?", metaLastTimestamp); err != nil {
		return Sample{}, false
	}

	st, ok := decodeState(stateJSON)
	if !ok {
		return Sample{}, false
	}
	ts, err := strconv.ParseInt(tsText, 10, 64)
	if err != nil {
		return Sample{}, false
	}
	return Sample{Timestamp: ts, State: st}, true
}

func (s *SQLite) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}
	for _, table := range []string{"samples", "meta"} {
		if _, err := s.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func decodeState(text string) (dimension.StateVector, bool) {
	return decodeStateValue([]byte(text))
}
