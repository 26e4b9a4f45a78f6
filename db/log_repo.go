package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kvar-ae/equarium/domain"
)

var _ domain.LogRepository = (*Repository)(nil)

// dbLog represents a log entry as stored in the database.
type dbLog struct {
	ID        uuid.UUID      `db:"id"`        // Unique identifier for the log entry.
	Timestamp time.Time      `db:"timestamp"` // The time at which the log entry was created.
	Level     string         `db:"level"`     // The severity level of the log.
	Message   string         `db:"message"`   // The main content of the log message.
	Context   Metadata       `db:"context"`   // A map of additional key-value data for structured logging.
	TraceID   sql.NullString `db:"trace_id"`  // An optional trace identifier of an associated simulation run.
}

// toDomainLog converts a dbLog to a domain.Log.
func toDomainLog(dbLog *dbLog) *domain.Log {
	log := &domain.Log{
		ID:        dbLog.ID,
		Timestamp: dbLog.Timestamp,
		Level:     dbLog.Level,
		Message:   dbLog.Message,
		Context:   map[string]any(dbLog.Context),
	}

	if dbLog.TraceID.Valid {
		traceID := dbLog.TraceID.String
		log.TraceID = &traceID
	}

	return log
}

// fromDomainLog converts a domain.Log to a dbLog.
func fromDomainLog(log *domain.Log) *dbLog {
	dbLog := &dbLog{
		ID:        log.ID,
		Timestamp: log.Timestamp,
		Level:     log.Level,
		Message:   log.Message,
		Context:   Metadata(log.Context),
	}

	if log.TraceID != nil {
		dbLog.TraceID = sql.NullString{String: *log.TraceID, Valid: true}
	}

	return dbLog
}

// InsertLog saves a new log entry to the database.
func (repo *Repository) InsertLog(log *domain.Log) error {
	dbLog := fromDomainLog(log)
	query := `INSERT INTO logs (id, level, timestamp, message, context, trace_id)
	          VALUES (:id, :level, :timestamp, :message, :context, :trace_id)`

	_, err := repo.dbConn.NamedExec(query, dbLog)
	if err != nil {
		return fmt.Errorf("inserting log %s: %w", log.ID, err)
	}

	return nil
}

// GetLogs retrieves all log entries from the database, oldest first.
func (repo *Repository) GetLogs() ([]*domain.Log, error) {
	var dbLogs []*dbLog
	query := `SELECT id, level, timestamp, message, context, trace_id
	          FROM logs
	          ORDER BY timestamp`

	if err := repo.dbConn.Select(&dbLogs, query); err != nil {
		return nil, fmt.Errorf("retrieving logs: %w", err)
	}

	domainLogs := make([]*domain.Log, len(dbLogs))
	for i, dbLog := range dbLogs {
		domainLogs[i] = toDomainLog(dbLog)
	}

	return domainLogs, nil
}

// CountLogs returns the number of stored log entries.
func (repo *Repository) CountLogs() (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM logs`

	if err := repo.dbConn.Get(&count, query); err != nil {
		return 0, fmt.Errorf("counting logs: %w", err)
	}

	return count, nil
}
