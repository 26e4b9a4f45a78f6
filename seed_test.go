package equarium

import (
	"os"
	"testing"

	"github.com/kvar-ae/equarium/db"
	"github.com/kvar-ae/equarium/domain"
)

func setupTestRepo(t *testing.T) *db.Repository {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := db.New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := db.NewCatalogRepo(dbConn)
	t.Cleanup(func() {
		repo.Close()
		os.Remove(tempFile.Name())
	})

	return repo
}

func TestSeedSet(t *testing.T) {
	t.Run("should return a non-empty set of valid inputs", func(t *testing.T) {
		inputs, err := SeedSet()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if len(inputs) == 0 {
			t.Fatalf("\nwanted:\na non-empty seed set\ngot:\n0 entries")
		}

		for _, input := range inputs {
			if err := input.Validate(); err != nil {
				t.Fatalf("seed equation %q is invalid: %v", input.Title, err)
			}
		}
	})
}

func TestSeed(t *testing.T) {
	t.Run("should populate an empty catalog and report that it worked", func(t *testing.T) {
		repo := setupTestRepo(t)

		seeded, err := Seed(repo)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if !seeded {
			t.Fatalf("\nwanted:\ntrue\ngot:\nfalse")
		}

		inputs, err := SeedSet()
		if err != nil {
			t.Fatalf("reading seed set: %v", err)
		}

		count, err := repo.CountEquations()
		if err != nil {
			t.Fatalf("counting equations: %v", err)
		}
		if count != int64(len(inputs)) {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", len(inputs), count)
		}
	})

	t.Run("should leave the record count unchanged when run twice", func(t *testing.T) {
		repo := setupTestRepo(t)

		if _, err := Seed(repo); err != nil {
			t.Fatalf("first seed run: %v", err)
		}

		countAfterFirst, err := repo.CountEquations()
		if err != nil {
			t.Fatalf("counting equations: %v", err)
		}

		seeded, err := Seed(repo)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if seeded {
			t.Fatalf("\nwanted:\nfalse\ngot:\ntrue")
		}

		countAfterSecond, err := repo.CountEquations()
		if err != nil {
			t.Fatalf("counting equations: %v", err)
		}
		if countAfterSecond != countAfterFirst {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", countAfterFirst, countAfterSecond)
		}
	})

	t.Run("should skip a catalog that already holds records", func(t *testing.T) {
		repo := setupTestRepo(t)

		if _, err := repo.CreateEquation(domain.EquationInput{
			Title:          "Pre-existing Equation",
			Code:           "PRE-1",
			Concept:        "Already present before seeding.",
			Latex:          "P = P",
			Deconstruction: "P: the pre-existing record",
		}); err != nil {
			t.Fatalf("creating equation: %v", err)
		}

		seeded, err := Seed(repo)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if seeded {
			t.Fatalf("\nwanted:\nfalse\ngot:\ntrue")
		}

		count, err := repo.CountEquations()
		if err != nil {
			t.Fatalf("counting equations: %v", err)
		}
		if count != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", count)
		}
	})
}
