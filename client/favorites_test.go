package client

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// memorySlot is an in-memory FavoritesPort with a switchable failure mode.
type memorySlot struct {
	ids     []int64
	failing bool
	saves   int
}

func (s *memorySlot) Load() ([]int64, error) {
	if s.failing {
		return nil, errors.New("slot unavailable")
	}
	return s.ids, nil
}

func (s *memorySlot) Save(ids []int64) error {
	if s.failing {
		return errors.New("slot unavailable")
	}
	s.ids = ids
	s.saves++
	return nil
}

func TestFavorites_Toggle(t *testing.T) {
	t.Run("should flip membership and persist every change", func(t *testing.T) {
		slot := &memorySlot{}
		favorites := NewFavorites(slot)

		added, err := favorites.Toggle(3)
		if err != nil {
			t.Fatalf("favorites.Toggle() failed: %v", err)
		}
		if !added {
			t.Fatalf("\nwanted:\ntrue after first toggle\ngot:\nfalse")
		}
		if !favorites.Has(3) {
			t.Fatalf("\nwanted:\nid 3 present\ngot:\nabsent")
		}

		removed, err := favorites.Toggle(3)
		if err != nil {
			t.Fatalf("favorites.Toggle() failed: %v", err)
		}
		if removed {
			t.Fatalf("\nwanted:\nfalse after second toggle\ngot:\ntrue")
		}
		if favorites.Has(3) {
			t.Fatalf("\nwanted:\nid 3 absent\ngot:\npresent")
		}

		if slot.saves != 2 {
			t.Fatalf("\nwanted:\n2 saves\ngot:\n%d", slot.saves)
		}
	})

	t.Run("should return the set to its prior state when persisting fails", func(t *testing.T) {
		slot := &memorySlot{}
		favorites := NewFavorites(slot)

		if _, err := favorites.Toggle(1); err != nil {
			t.Fatalf("favorites.Toggle() failed: %v", err)
		}

		slot.failing = true
		if _, err := favorites.Toggle(2); err == nil {
			t.Fatalf("\nwanted:\nan error\ngot:\nnil")
		}

		if favorites.Has(2) {
			t.Fatalf("\nwanted:\nid 2 rolled back\ngot:\npresent")
		}
		if !favorites.Has(1) {
			t.Fatalf("\nwanted:\nid 1 untouched\ngot:\nabsent")
		}
	})
}

func TestFavorites_Snapshot(t *testing.T) {
	t.Run("should return ids in ascending order", func(t *testing.T) {
		favorites := NewFavorites(&memorySlot{})
		for _, id := range []int64{42, 7, 19} {
			if _, err := favorites.Toggle(id); err != nil {
				t.Fatalf("favorites.Toggle() failed: %v", err)
			}
		}

		wanted := []int64{7, 19, 42}
		if got := favorites.Snapshot(); !reflect.DeepEqual(got, wanted) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", wanted, got)
		}
	})
}

func TestFavorites_Load(t *testing.T) {
	t.Run("should replace the in-memory set with the persisted one", func(t *testing.T) {
		slot := &memorySlot{ids: []int64{5, 11}}
		favorites := NewFavorites(slot)

		if err := favorites.Load(); err != nil {
			t.Fatalf("favorites.Load() failed: %v", err)
		}

		if !favorites.Has(5) || !favorites.Has(11) {
			t.Fatalf("\nwanted:\nids 5 and 11 present\ngot:\n%v", favorites.Snapshot())
		}
	})
}

func TestFileSlot(t *testing.T) {
	t.Run("should treat a missing file as an empty set", func(t *testing.T) {
		slot := NewFileSlot(filepath.Join(t.TempDir(), "favorites.json"))

		ids, err := slot.Load()
		if err != nil {
			t.Fatalf("slot.Load() failed: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("\nwanted:\nempty set\ngot:\n%v", ids)
		}
	})

	t.Run("should persist the set across instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")

		first := NewFavorites(NewFileSlot(path))
		for _, id := range []int64{2, 9} {
			if _, err := first.Toggle(id); err != nil {
				t.Fatalf("favorites.Toggle() failed: %v", err)
			}
		}

		second := NewFavorites(NewFileSlot(path))
		if err := second.Load(); err != nil {
			t.Fatalf("favorites.Load() failed: %v", err)
		}

		wanted := []int64{2, 9}
		if got := second.Snapshot(); !reflect.DeepEqual(got, wanted) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", wanted, got)
		}
	})

	t.Run("should reject a corrupted file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "favorites.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("writing corrupted file: %v", err)
		}

		if _, err := NewFileSlot(path).Load(); err == nil {
			t.Fatalf("\nwanted:\nan error\ngot:\nnil")
		}
	})
}
