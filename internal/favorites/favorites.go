// Package favorites persists the favorite set of each workspace.
package favorites

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// Store is the favorite set of one workspace.
type Store struct {
	db        *sql.DB
	workspace string
	now       func() time.Time
}

// New returns the favorite set of workspace (an absolute root path).
func New(db *sql.DB, workspace string) *Store {
	return &Store{db: db, workspace: workspace, now: time.Now}
}

// Contains reports whether (group, name) is a favorite.
func (s *Store) Contains(group, name string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT count(*) FROM favorites WHERE workspace = ? AND fav_key = ?",
		s.workspace, commands.FavoriteKey(group, name),
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add marks (group, name) as a favorite. Adding twice is a no-op.
func (s *Store) Add(group, name string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO favorites (workspace, fav_key, created_at) VALUES (?, ?, ?)",
		s.workspace, commands.FavoriteKey(group, name), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// Remove unmarks (group, name).
func (s *Store) Remove(group, name string) error {
	_, err := s.db.Exec(
		"DELETE FROM favorites WHERE workspace = ? AND fav_key = ?",
		s.workspace, commands.FavoriteKey(group, name),
	)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Toggle flips (group, name) and returns whether it is now a favorite.
func (s *Store) Toggle(group, name string) (bool, error) {
	on, err := s.Contains(group, name)
	if err != nil {
		return false, err
	}
	if on {
		return false, s.Remove(group, name)
	}
	return true, s.Add(group, name)
}

// Keys returns the favorite keys in the order they were added.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT fav_key FROM favorites WHERE workspace = ? ORDER BY created_at, fav_key",
		s.workspace,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Set returns the favorite keys as a lookup set.
func (s *Store) Set() (map[string]bool, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set, nil
}

// Resolve returns the records among groups that are favorites, in favorite
// order. Keys whose record no longer exists are skipped.
func (s *Store) Resolve(groups []commands.Group) ([]commands.Record, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	byKey := map[string]commands.Record{}
	for _, r := range commands.Flatten(groups) {
		byKey[commands.FavoriteKey(r.Group, r.Name)] = r
	}
	var out []commands.Record
	for _, k := range keys {
		if r, ok := byKey[k]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Prune removes favorites whose record is not among groups and returns how
// many were removed.
func (s *Store) Prune(groups []commands.Group) (int, error) {
	keys, err := s.Keys()
	if err != nil {
		return 0, err
	}
	live := map[string]bool{}
	for _, r := range commands.Flatten(groups) {
		live[commands.FavoriteKey(r.Group, r.Name)] = true
	}
	removed := 0
	for _, k := range keys {
		if live[k] {
			continue
		}
		if _, err := s.db.Exec("DELETE FROM favorites WHERE workspace = ? AND fav_key = ?", s.workspace, k); err != nil {
			return removed, fmt.Errorf("prune favorite %q: %w", k, err)
		}
		removed++
	}
	return removed, nil
}
