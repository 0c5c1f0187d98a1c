package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Key is the preference key the theme is stored under.
const Key = "theme"

type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Parse accepts "light" or "dark", case-insensitively.
func Parse(s string) (Preference, bool) {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

func (p Preference) Other() Preference {
	if p == Light {
		return Dark
	}
	return Light
}

// ToggleLabel is the accessible label of the toggle control.
func (p Preference) ToggleLabel() string {
	return fmt.Sprintf("Switch to %s theme", p.Other())
}

type Store interface {
	Get(ctx context.Context, visitor string) (Preference, bool, error)
	Set(ctx context.Context, visitor string, p Preference) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, visitor string) (Preference, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`, visitor, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load theme: %w", err)
	}
	p, ok := Parse(value)
	return p, ok, nil
}

func (s *SQLStore) Set(ctx context.Context, visitor string, p Preference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, visitor, Key, string(p))
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// MemoryStore keeps preferences for the life of the process. It backs the
// theme when the database is unavailable.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]Preference
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Preference)}
}

func (s *MemoryStore) Get(_ context.Context, visitor string) (Preference, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[visitor]
	return p, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, visitor string, p Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[visitor] = p
	return nil
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Resolve returns the saved preference, else the client's color-scheme
// hint, else dark.
func (s *Service) Resolve(ctx context.Context, visitor, hint string) Preference {
	p, ok, err := s.store.Get(ctx, visitor)
	if err != nil {
		s.log.Warn("theme lookup failed", zap.Error(err))
	}
	if ok {
		return p
	}
	if p, ok := Parse(hint); ok {
		return p
	}
	return Dark
}

// Toggle flips the visitor's theme and persists the new value.
func (s *Service) Toggle(ctx context.Context, visitor, hint string) (Preference, error) {
	next := s.Resolve(ctx, visitor, hint).Other()
	if err := s.store.Set(ctx, visitor, next); err != nil {
		return next, err
	}
	return next, nil
}

// Split counts saved preferences per theme.
func Split(ctx context.Context, db *sql.DB) (map[Preference]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT value, COUNT(*) FROM preferences WHERE key = ? GROUP BY value`, Key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[Preference]int64{Light: 0, Dark: 0}
	for rows.Next() {
		var value string
		var n int64
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		if p, ok := Parse(value); ok {
			out[p] += n
		}
	}
	return out, rows.Err()
}
