package client

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gabriel-vasile/mimetype"

	"github.com/kvar-ae/equarium/contract"
	"github.com/kvar-ae/equarium/domain"
)

var (
	// ErrInvalidID is returned when a Get is attempted with an identifier that
	// is not a valid integer. No request is issued in that case.
	ErrInvalidID = errors.New("identifier is not a valid integer")
)

// APIError carries a non-2xx response as an error with a human-readable message.
type APIError struct {
	StatusCode int    // HTTP status code of the response.
	Message    string // Message from the response body, if one was declared.
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d : %s", e.StatusCode, e.Message)
}

// Client issues requests against a running catalog per the contract
// declarations and caches results by request key.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *Cache
}

// New creates a Client for the catalog at baseURL and applies any provided options.
func New(baseURL string, options ...func(*Client) error) (*Client, error) {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   NewCache(),
	}
	for _, option := range options {
		err := option(client)
		if err != nil {
			return nil, fmt.Errorf("applying option on client : %w", err)
		}
	}
	return client, nil
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) func(*Client) error {
	return func(client *Client) error {
		if httpClient == nil {
			return errors.New("http client is nil")
		}
		client.http = httpClient
		return nil
	}
}

// Cache exposes the client's request cache, for state inspection and
// explicit invalidation when the user re-triggers a failed operation.
func (c *Client) Cache() *Cache {
	return c.cache
}

// ListEquations returns the catalog, filtered by a case-insensitive title
// substring when search is non-empty. Results are cached by (path, search).
func (c *Client) ListEquations(search string) ([]*domain.Equation, error) {
	key := requestKey(contract.ListEquations.Path, search)
	value, err := c.cache.Do(key, func() (any, error) {
		query := url.Values{}
		if search != "" {
			query.Set("search", search)
		}
		status, body, err := c.do(contract.ListEquations, nil, query)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, apiError(status, body)
		}

		var equations []*domain.Equation
		if err := c.decode(body, &equations); err != nil {
			return nil, err
		}
		for _, eq := range equations {
			if err := contract.ValidateEquation(eq); err != nil {
				return nil, err
			}
		}
		return equations, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]*domain.Equation), nil
}

// GetEquation returns one equation by its identifier. The identifier is
// validated before any request is issued; a 404 maps to
// domain.ErrEquationNotFound, which callers treat as a valid absent state.
func (c *Client) GetEquation(id string) (*domain.Equation, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("gating get for %q : %w", id, ErrInvalidID)
	}

	// Key on the canonical form so "07" and "7" share one cached record.
	canonical := strconv.FormatInt(parsed, 10)
	key := requestKey(contract.GetEquation.Path, canonical)
	value, err := c.cache.Do(key, func() (any, error) {
		status, body, err := c.do(contract.GetEquation, map[string]string{"id": canonical}, nil)
		if err != nil {
			return nil, err
		}
		switch status {
		case http.StatusOK:
			var equation domain.Equation
			if err := c.decode(body, &equation); err != nil {
				return nil, err
			}
			if err := contract.ValidateEquation(&equation); err != nil {
				return nil, err
			}
			return &equation, nil
		case http.StatusNotFound:
			return nil, domain.ErrEquationNotFound
		default:
			return nil, apiError(status, body)
		}
	})
	if err != nil {
		return nil, err
	}
	return value.(*domain.Equation), nil
}

// CreateEquation adds an equation to the catalog and invalidates the cached
// list results, since they no longer reflect the stored state.
func (c *Client) CreateEquation(input domain.EquationInput) (*domain.Equation, error) {
	status, body, err := c.doWithBody(contract.CreateEquation, nil, nil, input)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, apiError(status, body)
	}

	var equation domain.Equation
	if err := c.decode(body, &equation); err != nil {
		return nil, err
	}
	if err := contract.ValidateEquation(&equation); err != nil {
		return nil, err
	}

	c.cache.InvalidatePrefix(requestKey(contract.ListEquations.Path))
	return &equation, nil
}

// RunGenesis submits a simulation run and returns the full result in one
// response. Runs are never cached; every call is a fresh run with its own
// trace identifier.
func (c *Client) RunGenesis() (*contract.SimulationResult, error) {
	status, body, err := c.do(contract.RunGenesis, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var result contract.SimulationResult
	if err := c.decode(body, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(op contract.Operation, params map[string]string, query url.Values) (int, []byte, error) {
	return c.doWithBody(op, params, query, nil)
}

func (c *Client) doWithBody(op contract.Operation, params map[string]string, query url.Values, payload any) (int, []byte, error) {
	target := c.baseURL + op.Expand(params)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request body : %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(op.Method, target, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request : %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("requesting %s %s : %w", op.Method, target, err)
	}
	defer res.Body.Close()

	body, err := readBody(res)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, body, nil
}

// readBody reads the response body, transparently decompressing br and gzip
// encoded payloads.
func readBody(res *http.Response) ([]byte, error) {
	switch res.Header.Get("Content-Encoding") {
	case "br":
		body, err := io.ReadAll(brotli.NewReader(res.Body))
		if err != nil {
			return nil, fmt.Errorf("reading brotli content : %w", err)
		}
		return body, nil
	case "gzip":
		gzipReader, err := gzip.NewReader(res.Body)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzipReader.Close()

		body, err := io.ReadAll(gzipReader)
		if err != nil {
			return nil, fmt.Errorf("reading gzip content: %w", err)
		}
		return body, nil
	default:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body : %w", err)
		}
		return body, nil
	}
}

// decode strictly decodes a response body against its declared shape. When
// decoding fails, the detected body type is named in the error so that a
// misrouted HTML or text payload is easy to spot.
func (c *Client) decode(body []byte, dst any) error {
	if err := contract.DecodeStrict(bytes.NewReader(body), dst); err != nil {
		detected := mimetype.Detect(body).String()
		return fmt.Errorf("response body is %s, not the declared shape (%v) : %w", detected, err, contract.ErrContractMismatch)
	}
	return nil
}

// apiError surfaces a non-2xx response as an *APIError, using the declared
// Message shape when the body carries one.
func apiError(status int, body []byte) error {
	var msg contract.Message
	if err := contract.DecodeStrict(bytes.NewReader(body), &msg); err == nil && msg.Message != "" {
		return &APIError{StatusCode: status, Message: msg.Message}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

// requestKey builds the cache key for an operation and its relevant parameters.
func requestKey(path string, params ...string) string {
	return path + "|" + strings.Join(params, "|")
}
