// Package core provides fundamental utilities for the Equarium catalog.
// This file contains option functions for customizing log entries.
package core

import (
	"github.com/kvar-ae/equarium/domain"
)

// LogWithContext is an option to add a context map to a log entry.
func LogWithContext(context map[string]any) func(log *domain.Log) error {
	return func(log *domain.Log) error {
		log.Context = context
		return nil
	}
}

// LogWithTraceID is an option to associate a log entry with a simulation trace identifier.
func LogWithTraceID(traceID string) func(log *domain.Log) error {
	return func(log *domain.Log) error {
		log.TraceID = &traceID
		return nil
	}
}
