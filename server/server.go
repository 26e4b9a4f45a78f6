// Package server binds the contract operations to the equation repository
// over HTTP. Handlers validate and coerce transport-level input before it
// reaches the repository, map domain outcomes to status codes, and report
// infrastructure failures without leaking detail to the caller.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/kvar-ae/equarium/contract"
	"github.com/kvar-ae/equarium/core"
	"github.com/kvar-ae/equarium/domain"
)

// Logger records operational events for the service. The root catalog type
// satisfies it with a sqlite-backed structured log.
type Logger interface {
	WriteLog(level string, message string, options ...func(log *domain.Log) error) error
}

// handler bundles the HTTP endpoints of the catalog service.
type handler struct {
	repo   domain.EquationRepository
	logger Logger
}

// NewHandler returns a mux exposing the catalog REST API. The routes are
// registered from the contract declarations, keeping server and client bound
// to the same definitions.
func NewHandler(repo domain.EquationRepository, logger Logger) http.Handler {
	h := &handler{repo: repo, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc(contract.ListEquations.Pattern(), h.listEquations)
	mux.HandleFunc(contract.CreateEquation.Pattern(), h.createEquation)
	mux.HandleFunc(contract.GetEquation.Pattern(), h.getEquation)
	mux.HandleFunc(contract.RunGenesis.Pattern(), h.runGenesis)
	return mux
}

// searchParam coerces the optional "search" query parameter into a plain
// string before it reaches the repository. The term passes through verbatim;
// the repository treats an all-whitespace term as absent.
func searchParam(r *http.Request) string {
	return r.URL.Query().Get("search")
}

func (h *handler) listEquations(w http.ResponseWriter, r *http.Request) {
	equations, err := h.repo.ListEquations(searchParam(r))
	if err != nil {
		h.reportFailure("listing equations", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if equations == nil {
		equations = []*domain.Equation{}
	}
	writeJSON(w, http.StatusOK, equations)
}

func (h *handler) getEquation(w http.ResponseWriter, r *http.Request) {
	// A non-integer id cannot match any record, so it shares the 404 path.
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Equation not found")
		return
	}

	equation, err := h.repo.GetEquation(id)
	if err != nil {
		if errors.Is(err, domain.ErrEquationNotFound) {
			writeError(w, http.StatusNotFound, "Equation not found")
			return
		}
		h.reportFailure(fmt.Sprintf("getting equation %d", id), err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, equation)
}

func (h *handler) createEquation(w http.ResponseWriter, r *http.Request) {
	var input domain.EquationInput
	if err := decodeJSON(r.Body, &input); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not a valid equation")
		return
	}

	equation, err := h.repo.CreateEquation(input)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.reportFailure(fmt.Sprintf("creating equation %q", input.Title), err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, equation)
}

func (h *handler) runGenesis(w http.ResponseWriter, r *http.Request) {
	// No computation happens here. The full script is returned in one
	// response; the client paces its reveal.
	traceID, err := uuid.NewV7()
	if err != nil {
		h.reportFailure("generating trace id", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result := contract.SimulationResult{
		Status:  domain.GenesisStatus,
		TraceID: traceID.String(),
		Logs:    domain.GenesisLogs(),
	}

	if h.logger != nil {
		if err := h.logger.WriteLog("INFO", "genesis simulation synthesized", core.LogWithTraceID(result.TraceID)); err != nil {
			// A failed log write must not fail the simulation response.
			h.reportFailure("recording genesis run", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// reportFailure records an infrastructure error server-side. The HTTP
// response carries only a generic message.
func (h *handler) reportFailure(operation string, err error) {
	if h.logger == nil {
		return
	}
	_ = h.logger.WriteLog("ERROR", fmt.Sprintf("%s : %s", operation, err.Error()))
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, contract.Message{Message: message})
}
