// Package equarium provides an equation catalog service with a typed HTTP
// contract, SQLite database storage, and a mocked long-running "genesis"
// simulation. It is designed to be decoupled from presentation layers and
// provides the pieces a UI needs: a seeded reference catalog, search,
// record lookup, and a simulation endpoint whose log script the client
// package reveals at a paced cadence.
//
// The core functionality includes:
//   - Contract declarations shared by server and client
//   - SQLite database storage for equations and service logs
//   - HTTP binding of the contract operations
//   - Idempotent seeding of the reference equation set
//   - A client with request caching, favorites, and staged log reveal
package equarium

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kvar-ae/equarium/domain"
	"github.com/kvar-ae/equarium/server"
)

// Repository defines the methods consumed by the catalog to interact with the
// SQLite backend. It provides an abstraction layer over equation storage and
// the persisted service log.
type Repository interface {
	domain.EquationRepository
	domain.LogRepository
	Close() error
}

// Catalog is the central coordinator of the service. It owns the repository,
// the configuration, and the HTTP server binding the contract operations.
type Catalog struct {
	ConfigDir string       // The configuration directory.
	Config    *Config      // The catalog configuration.
	Repo      Repository   // DB repository interface.
	Logger    *slog.Logger // Operational logger; entries also land in the persisted service log.
	Addr      string       // IP address the HTTP server listens on.
	Port      string       // Port the HTTP server listens on.
	Seeded    bool         // Whether the last startup performed seeding work.
	server    *http.Server // The underlying HTTP server, set by Serve.
}

// New creates a new Catalog instance with default configuration and applies
// any provided options.
func New(options ...func(*Catalog) error) (*Catalog, error) {
	catalog := &Catalog{
		Logger: slog.Default(),
		Addr:   "127.0.0.1",
		Port:   "8340",
	}
	err := catalog.WithOptions(options...)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// WriteLog records a structured log entry in the persisted service log and
// mirrors it to the operational logger.
func (catalog *Catalog) WriteLog(level string, message string, options ...func(log *domain.Log) error) error {
	switch level {
	case "DEBUG":
	case "INFO":
	case "WARN":
	case "ERROR":
	default:
		return fmt.Errorf("level should be either: debug, info, warn, error")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating new uuid : %w", err)
	}
	entry := domain.Log{
		ID:        id,
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	for _, option := range options {
		err := option(&entry)
		if err != nil {
			return fmt.Errorf("applying log option : %w", err)
		}
	}

	catalog.Logger.Log(context.Background(), slogLevel(level), message)

	if catalog.Repo == nil {
		return nil
	}
	if err := catalog.Repo.InsertLog(&entry); err != nil {
		return fmt.Errorf("persisting log entry : %w", err)
	}
	return nil
}

func slogLevel(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Handler returns the HTTP handler binding the contract operations to the
// repository.
func (catalog *Catalog) Handler() http.Handler {
	return server.NewHandler(catalog.Repo, catalog)
}

// Serve starts the HTTP server on the configured address and blocks until the
// server stops or the context is cancelled.
func (catalog *Catalog) Serve(ctx context.Context) error {
	if catalog.Repo == nil {
		return fmt.Errorf("catalog has no repository configured")
	}

	catalog.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", catalog.Addr, catalog.Port),
		Handler: catalog.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- catalog.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := catalog.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server : %w", err)
		}
		return nil
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serving catalog : %w", err)
		}
		return nil
	}
}

// Close releases the repository resources.
func (catalog *Catalog) Close() error {
	if catalog.Repo == nil {
		return nil
	}
	if err := catalog.Repo.Close(); err != nil {
		return fmt.Errorf("closing catalog : %w", err)
	}
	return nil
}
