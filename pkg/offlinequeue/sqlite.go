package offlinequeue

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// stateNamespace is the fixed key the queue is stored under. One queue
// per store file; the namespace keeps the table reusable for other
// client-side state later.
const stateNamespace = "apptsync.pending-mutations"

// SQLiteStore persists the queue as a single JSON payload in a local
// SQLite file, so pending mutations survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the queue database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("offlinequeue: failed to open store: %w", err)
	}

	// SQLite поддерживает только одно write-подключение
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("offlinequeue: migration failed: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	// WAL переживает падение процесса посреди записи
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS queue_state (
		ns         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create queue_state table: %w", err)
	}

	return nil
}

// Load reads the stored queue. A missing row or a payload that does not
// parse as an entry list is an empty queue, not an error.
func (s *SQLiteStore) Load() ([]Entry, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM queue_state WHERE ns = ?`, stateNamespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("offlinequeue: failed to load queue: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		// Битое содержимое - пустая очередь, пользователя не блокируем
		return []Entry{}, nil
	}

	return entries, nil
}

// Save overwrites the stored queue with entries.
func (s *SQLiteStore) Save(entries []Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("offlinequeue: failed to marshal queue: %w", err)
	}

	query := `INSERT INTO queue_state (ns, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ns) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.Exec(query, stateNamespace, string(payload)); err != nil {
		return fmt.Errorf("offlinequeue: failed to save queue: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
