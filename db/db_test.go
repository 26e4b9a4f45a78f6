package db

import (
	"os"
	"testing"

	"github.com/kvar-ae/equarium/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	dbConn, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	repo := NewCatalogRepo(dbConn)

	teardown := func() {
		repo.Close()
		os.Remove(tempFile.Name())
	}

	return repo, teardown
}

func testEquationInput(title string) domain.EquationInput {
	return domain.EquationInput{
		Title:          title,
		Code:           "EQ-TEST",
		Concept:        "A transient equation used to exercise the repository.",
		Latex:          `\Omega = \int \phi \, d\mu`,
		Deconstruction: "Omega: the aggregate\nphi: the field under test",
		Category:       "Field Dynamics",
	}
}

func createTestEquation(t *testing.T, repo *Repository, title string) *domain.Equation {
	t.Helper()

	eq, err := repo.CreateEquation(testEquationInput(title))
	if err != nil {
		t.Fatalf("creating equation %q: %v", title, err)
	}
	return eq
}
