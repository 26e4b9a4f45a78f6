package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kvar-ae/equarium/domain"
)

var _ domain.EquationRepository = (*Repository)(nil)

// dbEquation represents an equation as stored in the database.
type dbEquation struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Code           string    `db:"code"`
	Concept        string    `db:"concept"`
	Latex          string    `db:"latex"`
	Deconstruction string    `db:"deconstruction"`
	Category       string    `db:"category"`
	CreatedAt      time.Time `db:"created_at"`
}

// toDomainEquation converts a dbEquation to a domain.Equation.
func toDomainEquation(dbEq *dbEquation) *domain.Equation {
	return &domain.Equation{
		ID:             dbEq.ID,
		Title:          dbEq.Title,
		Code:           dbEq.Code,
		Concept:        dbEq.Concept,
		Latex:          dbEq.Latex,
		Deconstruction: dbEq.Deconstruction,
		Category:       dbEq.Category,
		CreatedAt:      dbEq.CreatedAt,
	}
}

// escapeLike escapes the LIKE wildcards in a search term so the term is
// matched literally as a substring.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// ListEquations retrieves equations in insertion order. A non-empty search
// restricts the result to equations whose title contains the term
// case-insensitively as a plain substring. Whitespace inside the term is
// significant; only an all-whitespace term counts as absent.
func (repo *Repository) ListEquations(search string) ([]*domain.Equation, error) {
	var dbEquations []*dbEquation

	if strings.TrimSpace(search) == "" {
		query := `SELECT id, title, code, concept, latex, deconstruction, category, created_at
		          FROM equation
		          ORDER BY id`
		if err := repo.dbConn.Select(&dbEquations, query); err != nil {
			return nil, fmt.Errorf("retrieving equations: %w", err)
		}
	} else {
		query := `SELECT id, title, code, concept, latex, deconstruction, category, created_at
		          FROM equation
		          WHERE LOWER(title) LIKE '%' || LOWER(?) || '%' ESCAPE '\'
		          ORDER BY id`
		if err := repo.dbConn.Select(&dbEquations, query, escapeLike(search)); err != nil {
			return nil, fmt.Errorf("searching equations for %q: %w", search, err)
		}
	}

	domainEquations := make([]*domain.Equation, len(dbEquations))
	for i, dbEq := range dbEquations {
		domainEquations[i] = toDomainEquation(dbEq)
	}

	return domainEquations, nil
}

// GetEquation retrieves the equation with the given identifier.
// It returns domain.ErrEquationNotFound when no row matches.
func (repo *Repository) GetEquation(id int64) (*domain.Equation, error) {
	var dbEq dbEquation
	query := `SELECT id, title, code, concept, latex, deconstruction, category, created_at
	          FROM equation
	          WHERE id = ?`

	err := repo.dbConn.Get(&dbEq, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEquationNotFound
		}
		return nil, fmt.Errorf("retrieving equation %d: %w", id, err)
	}

	return toDomainEquation(&dbEq), nil
}

// CreateEquation validates the input, assigns an identifier and creation
// timestamp, persists the equation, and returns the stored record.
func (repo *Repository) CreateEquation(input domain.EquationInput) (*domain.Equation, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := `INSERT INTO equation (title, code, concept, latex, deconstruction, category, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	result, err := repo.dbConn.Exec(query, input.Title, input.Code, input.Concept, input.Latex, input.Deconstruction, input.Category, createdAt)
	if err != nil {
		return nil, fmt.Errorf("inserting equation %q: %w", input.Title, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading generated id for %q: %w", input.Title, err)
	}

	return repo.GetEquation(id)
}

// CountEquations returns the number of stored equations.
func (repo *Repository) CountEquations() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM equation`

	if err := repo.dbConn.Get(&count, query); err != nil {
		return 0, fmt.Errorf("counting equations: %w", err)
	}

	return count, nil
}
