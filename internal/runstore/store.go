// Package runstore persists a history of staging runs so operators can audit
// what was staged, when, and with what outcome.
package runstore

import (
	"context"
	"time"
)

// Outcome enumerates terminal run states.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Run is one recorded staging run.
type Run struct {
	ID        int64
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   Outcome
	Source    string
	Dest      string
	Files     int
	Bytes     int64
	// Commit is the HEAD commit of the repository containing the asset
	// source, when resolvable. Empty otherwise.
	Commit string
	// Error holds the failure message for failed runs.
	Error string
}

// Store defines the interface for persisting and retrieving staging runs.
type Store interface {
	// Append records a completed run.
	Append(ctx context.Context, run Run) error

	// Recent retrieves the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Close closes the store and releases resources.
	Close() error
}
