// Package store persists attendance snapshots on disk and diffs
// consecutive ones. The layout is deliberately simple: the newest snapshot
// lives at latest.json, the one before it at previous.json, plus a dated
// archive copy per fetch.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"amon/internal/attendance"

	"go.uber.org/zap"
)

const (
	latestFile   = "latest.json"
	previousFile = "previous.json"
)

// SnapshotStore reads and writes snapshots under a single directory.
type SnapshotStore struct {
	mu  sync.Mutex
	dir string
	log *zap.Logger
}

// NewSnapshotStore creates the store and its directory if missing.
func NewSnapshotStore(dir string, log *zap.Logger) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir %s: %w", dir, err)
	}
	return &SnapshotStore{dir: dir, log: log.Named("store")}, nil
}

// Save rotates latest to previous, writes the new snapshot as latest and
// keeps a dated archive copy. Rotation failures are logged and tolerated;
// losing the previous generation must not lose the fresh data.
func (s *SnapshotStore) Save(snap *attendance.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := filepath.Join(s.dir, latestFile)
	if _, err := os.Stat(latest); err == nil {
		if err := os.Rename(latest, filepath.Join(s.dir, previousFile)); err != nil {
			s.log.Warn("rotating previous snapshot failed", zap.Error(err))
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(latest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", latest, err)
	}

	archive := filepath.Join(s.dir, snap.FetchedAt.Format("20060102-150405")+".json")
	if err := os.WriteFile(archive, data, 0o644); err != nil {
		s.log.Warn("writing archive copy failed", zap.Error(err))
	}

	s.log.Info("snapshot saved",
		zap.String("path", latest),
		zap.Int("days", len(snap.Days)))
	return nil
}

// Latest loads the newest snapshot. A missing file returns (nil, nil).
func (s *SnapshotStore) Latest() (*attendance.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(latestFile)
}

// Previous loads the generation before latest. A missing file returns
// (nil, nil).
func (s *SnapshotStore) Previous() (*attendance.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(previousFile)
}

func (s *SnapshotStore) read(name string) (*attendance.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var snap attendance.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return &snap, nil
}

// Change describes one day whose reconciled state moved between snapshots.
type Change struct {
	Date   string                   `json:"date"`
	Before *attendance.HistoryEntry `json:"before,omitempty"`
	After  *attendance.HistoryEntry `json:"after,omitempty"`
}

// Diff lists the days that appeared, disappeared, or changed between two
// snapshots, in ascending date order. Either side may be nil.
func Diff(prev, next *attendance.Snapshot) []Change {
	var changes []Change

	oldDays := map[string]attendance.HistoryEntry{}
	if prev != nil {
		oldDays = prev.Days
	}
	newDays := map[string]attendance.HistoryEntry{}
	if next != nil {
		newDays = next.Days
	}

	seen := make(map[string]bool, len(oldDays)+len(newDays))
	keys := make([]string, 0, len(oldDays)+len(newDays))
	for k := range oldDays {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range newDays {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		before, hadBefore := oldDays[k]
		after, hasAfter := newDays[k]
		switch {
		case hadBefore && hasAfter:
			if before != after {
				b, a := before, after
				changes = append(changes, Change{Date: k, Before: &b, After: &a})
			}
		case hasAfter:
			a := after
			changes = append(changes, Change{Date: k, After: &a})
		default:
			b := before
			changes = append(changes, Change{Date: k, Before: &b})
		}
	}
	return changes
}
