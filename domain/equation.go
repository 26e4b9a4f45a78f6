package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCategory is applied to equations created without an explicit category.
const DefaultCategory = "General"

var (
	// ErrEquationNotFound is returned when no equation exists for a requested identifier.
	// It is distinct from infrastructure failures so that callers can tell
	// "no such record" apart from "storage unavailable".
	ErrEquationNotFound = errors.New("equation not found")
)

// EquationRepository defines the interface for managing catalog equations.
// Implementations own all persisted equation state; callers only ever hold
// transient copies returned from these methods.
type EquationRepository interface {
	// ListEquations retrieves equations in insertion order. If search is non-empty,
	// only equations whose title contains it case-insensitively are returned.
	// An empty result is a nil error and an empty slice, never a failure.
	ListEquations(search string) ([]*Equation, error)

	// GetEquation retrieves the equation with the given identifier.
	// It returns ErrEquationNotFound if no equation has that identifier.
	GetEquation(id int64) (*Equation, error)

	// CreateEquation validates the input, assigns a fresh identifier and creation
	// timestamp, persists the equation, and returns the stored record.
	CreateEquation(input EquationInput) (*Equation, error)

	// CountEquations returns the number of stored equations.
	CountEquations() (int64, error)
}

// Equation represents one catalog entry. The identifier and creation timestamp
// are assigned by the repository on creation and are immutable afterwards.
type Equation struct {
	ID             int64     `json:"id"`             // Unique identifier, assigned on creation.
	Title          string    `json:"title"`          // Human-readable title.
	Code           string    `json:"code"`           // Short reference label.
	Concept        string    `json:"concept"`        // Free-text summary of the underlying concept.
	Latex          string    `json:"latex"`          // Formal expression, typically LaTeX markup.
	Deconstruction string    `json:"deconstruction"` // Term-by-term explanation; may span multiple lines.
	Category       string    `json:"category"`       // Catalog category, defaults to DefaultCategory.
	CreatedAt      time.Time `json:"createdAt"`      // Server-assigned creation timestamp, set once.
}

// DeconstructionLines splits the deconstruction text on embedded line breaks.
// The line breaks are meaningful at render time only; storage keeps the text as one field.
func (eq *Equation) DeconstructionLines() []string {
	normalized := strings.ReplaceAll(eq.Deconstruction, "\r\n", "\n")
	lines := []string{}
	for _, line := range strings.Split(normalized, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// EquationInput carries the caller-supplied fields for creating an equation.
type EquationInput struct {
	Title          string `json:"title" yaml:"title"`
	Code           string `json:"code" yaml:"code"`
	Concept        string `json:"concept" yaml:"concept"`
	Latex          string `json:"latex" yaml:"latex"`
	Deconstruction string `json:"deconstruction" yaml:"deconstruction"`
	Category       string `json:"category" yaml:"category"`
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string // Name of the offending field.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Validate checks that all required fields are present and applies the
// default category when none was supplied.
func (input *EquationInput) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"title", input.Title},
		{"code", input.Code},
		{"concept", input.Concept},
		{"latex", input.Latex},
		{"deconstruction", input.Deconstruction},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return &ValidationError{Field: req.field}
		}
	}
	if strings.TrimSpace(input.Category) == "" {
		input.Category = DefaultCategory
	}
	return nil
}
