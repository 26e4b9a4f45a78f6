// Package contract declares the HTTP operations shared by the catalog server
// and its client: for each operation the method, the path template, and the
// response shapes per status code. Both sides treat these declarations as the
// single source of truth; a response body that does not match its declared
// shape is a contract mismatch, never data to pass along silently.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kvar-ae/equarium/domain"
)

// ErrContractMismatch marks a response body that failed validation against
// its declared shape. It signals a programming defect rather than a normal
// runtime condition.
var ErrContractMismatch = errors.New("response does not match contract")

// Operation describes one HTTP endpoint. Path templates use ":name"
// placeholders for path parameters.
type Operation struct {
	Method string // HTTP method.
	Path   string // Path template, e.g. "/api/equations/:id".
}

var (
	// ListEquations returns the catalog, optionally filtered by a "search" query parameter.
	ListEquations = Operation{Method: http.MethodGet, Path: "/api/equations"}

	// CreateEquation adds an equation to the catalog from an EquationInput body.
	CreateEquation = Operation{Method: http.MethodPost, Path: "/api/equations"}

	// GetEquation returns a single equation, or a 404 Message when the id is unknown.
	GetEquation = Operation{Method: http.MethodGet, Path: "/api/equations/:id"}

	// RunGenesis synthesizes a simulation run and returns its full log script at once.
	RunGenesis = Operation{Method: http.MethodPost, Path: "/api/simulation/genesis"}
)

// Expand resolves ":name" placeholders in the operation's path template
// against the supplied parameter map. Placeholders with no matching key are
// left unresolved; callers are expected to supply every parameter the
// template declares.
func (op Operation) Expand(params map[string]string) string {
	segments := strings.Split(op.Path, "/")
	for i, segment := range segments {
		name, ok := strings.CutPrefix(segment, ":")
		if !ok {
			continue
		}
		if value, ok := params[name]; ok {
			segments[i] = value
		}
	}
	return strings.Join(segments, "/")
}

// Pattern returns the operation in net/http ServeMux form, with the method
// prefix and "{name}" wildcards, for handler registration.
func (op Operation) Pattern() string {
	segments := strings.Split(op.Path, "/")
	for i, segment := range segments {
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return op.Method + " " + strings.Join(segments, "/")
}

// Message is the body shape for error responses such as a 404.
type Message struct {
	Message string `json:"message"`
}

// Validate checks the Message against its declared shape.
func (m *Message) Validate() error {
	if m.Message == "" {
		return fmt.Errorf("message is empty : %w", ErrContractMismatch)
	}
	return nil
}

// SimulationResult is the success body shape for RunGenesis.
type SimulationResult struct {
	Status  string   `json:"status"`  // Terminal status of the run.
	TraceID string   `json:"traceId"` // Per-call trace identifier.
	Logs    []string `json:"logs"`    // Ordered narrative log lines.
}

// Validate checks the SimulationResult against its declared shape.
func (res *SimulationResult) Validate() error {
	if res.Status == "" {
		return fmt.Errorf("status is empty : %w", ErrContractMismatch)
	}
	if res.TraceID == "" {
		return fmt.Errorf("traceId is empty : %w", ErrContractMismatch)
	}
	if len(res.Logs) == 0 {
		return fmt.Errorf("logs are empty : %w", ErrContractMismatch)
	}
	return nil
}

// ValidateEquation checks a decoded equation against the declared record shape.
func ValidateEquation(eq *domain.Equation) error {
	if eq.ID <= 0 {
		return fmt.Errorf("equation id %d is not positive : %w", eq.ID, ErrContractMismatch)
	}
	required := []struct {
		field string
		value string
	}{
		{"title", eq.Title},
		{"code", eq.Code},
		{"concept", eq.Concept},
		{"latex", eq.Latex},
		{"deconstruction", eq.Deconstruction},
		{"category", eq.Category},
	}
	for _, req := range required {
		if req.value == "" {
			return fmt.Errorf("equation %d has an empty %s : %w", eq.ID, req.field, ErrContractMismatch)
		}
	}
	if eq.CreatedAt.IsZero() {
		return fmt.Errorf("equation %d has no creation timestamp : %w", eq.ID, ErrContractMismatch)
	}
	return nil
}

// DecodeStrict decodes a JSON body into dst, rejecting unknown fields so that
// shape drift surfaces as an error instead of being dropped silently.
func DecodeStrict(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding body : %w", err)
	}
	return nil
}
