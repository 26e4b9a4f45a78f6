package client

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
)

// FavoritesPort abstracts the client-local slot that persists the favorite
// set, so the in-memory logic is testable without a real storage medium.
type FavoritesPort interface {
	// Load reads the persisted favorite ids. A slot that does not exist yet
	// yields an empty set, not an error.
	Load() ([]int64, error)
	// Save rewrites the slot with the full favorite set.
	Save(ids []int64) error
}

// FileSlot persists the favorite set as a JSON array of ids in a single
// named file. Favorites never reach the server; this slot is the only place
// they live between sessions.
type FileSlot struct {
	path string
}

// NewFileSlot creates a FileSlot at the given file path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Load reads the slot. A missing file is an empty set.
func (slot *FileSlot) Load() ([]int64, error) {
	raw, err := os.ReadFile(slot.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("reading favorites slot %s : %w", slot.path, err)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("unmarshalling favorites slot %s : %w", slot.path, err)
	}
	return ids, nil
}

// Save rewrites the slot with the given ids.
func (slot *FileSlot) Save(ids []int64) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshalling favorites : %w", err)
	}
	if err := os.WriteFile(slot.path, raw, 0600); err != nil {
		return fmt.Errorf("writing favorites slot %s : %w", slot.path, err)
	}
	return nil
}

// Favorites is the client-owned set of favorite equation ids. Membership is
// a set: toggling an id flips it between present and absent, and every
// toggle rewrites the persistence slot.
type Favorites struct {
	mu   sync.Mutex
	port FavoritesPort
	ids  map[int64]struct{}
}

// NewFavorites creates an empty favorite set over the given port. Call Load
// to populate it from the slot.
func NewFavorites(port FavoritesPort) *Favorites {
	return &Favorites{
		port: port,
		ids:  make(map[int64]struct{}),
	}
}

// Load replaces the in-memory set with the persisted one.
func (f *Favorites) Load() error {
	ids, err := f.port.Load()
	if err != nil {
		return fmt.Errorf("loading favorites : %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return nil
}

// Toggle flips the membership of id and persists the new set. It reports
// whether the id is a favorite after the toggle.
func (f *Favorites) Toggle(id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, present := f.ids[id]
	if present {
		delete(f.ids, id)
	} else {
		f.ids[id] = struct{}{}
	}

	if err := f.port.Save(f.snapshotLocked()); err != nil {
		// Roll back so memory and slot stay consistent.
		if present {
			f.ids[id] = struct{}{}
		} else {
			delete(f.ids, id)
		}
		return present, fmt.Errorf("persisting favorites : %w", err)
	}
	return !present, nil
}

// Has reports whether id is currently a favorite.
func (f *Favorites) Has(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, present := f.ids[id]
	return present
}

// Snapshot returns the favorite ids in ascending order.
func (f *Favorites) Snapshot() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Favorites) snapshotLocked() []int64 {
	ids := make([]int64, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
