// Package store persists the current session's credential pair (bearer
// token and user profile) across program runs. It is a durable mirror of
// the in-memory session, not a second source of truth: callers treat any
// disagreement by purging the mirror.
package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"

	"sales-admin/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

const (
	keyToken   = "token"
	keyProfile = "profile"
)

// Store is a sqlite-backed key/value store holding exactly two entries:
// the bearer token and the serialized profile. Values are sealed at rest
// (see seal.go). Save, Load and Clear never fail from the caller's point
// of view; malformed or unreadable entries are treated as absent and
// removed so the store heals itself.
type Store struct {
	mu   sync.Mutex
	conn *sql.DB
	key  []byte
}

// Open opens (or creates) the credential store at path and runs migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	key, err := s.sealKey()
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.key = key

	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			name TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			name TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save stores the token and profile together. Both entries are written in
// one transaction so the mirror is never left half-set. Failures are
// logged, not returned; the in-memory session stays authoritative.
func (s *Store) Save(token string, profile *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(profile)
	if err != nil {
		log.Printf("store: marshal profile: %v", err)
		return
	}

	sealedToken, err := s.seal([]byte(token))
	if err != nil {
		log.Printf("store: seal token: %v", err)
		return
	}
	sealedProfile, err := s.seal(raw)
	if err != nil {
		log.Printf("store: seal profile: %v", err)
		return
	}

	tx, err := s.conn.Begin()
	if err != nil {
		log.Printf("store: save: %v", err)
		return
	}
	for name, value := range map[string][]byte{keyToken: sealedToken, keyProfile: sealedProfile} {
		if _, err := tx.Exec(
			"INSERT INTO credentials (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
			name, value,
		); err != nil {
			log.Printf("store: save %s: %v", name, err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("store: save commit: %v", err)
	}
}

// Load returns the stored token and profile. When either entry is missing
// or cannot be read back, both are purged and absence is reported.
func (s *Store) Load() (string, *models.User, bool) {
	s.mu.Lock()
	token, ok := s.get(keyToken)
	if !ok {
		s.clearLocked()
		s.mu.Unlock()
		return "", nil, false
	}
	raw, ok := s.get(keyProfile)
	s.mu.Unlock()
	if !ok {
		s.Clear()
		return "", nil, false
	}

	var profile models.User
	if err := json.Unmarshal(raw, &profile); err != nil {
		log.Printf("store: invalid stored profile, purging: %v", err)
		s.Clear()
		return "", nil, false
	}
	return string(token), &profile, true
}

// Token returns the stored bearer token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.get(keyToken)
	if !ok {
		return "", false
	}
	return string(token), true
}

func (s *Store) get(name string) ([]byte, bool) {
	var sealed []byte
	err := s.conn.QueryRow("SELECT value FROM credentials WHERE name = ?", name).Scan(&sealed)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("store: read %s: %v", name, err)
		return nil, false
	}
	plain, err := s.open(sealed)
	if err != nil {
		log.Printf("store: unreadable %s entry, treating as absent: %v", name, err)
		return nil, false
	}
	return plain, true
}

// Clear removes both entries. Safe to call when the store is already empty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	if _, err := s.conn.Exec("DELETE FROM credentials"); err != nil {
		log.Printf("store: clear: %v", err)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}
