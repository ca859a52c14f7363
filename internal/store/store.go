// Package store defines the persistence boundary of the intake pipeline.
// Every read and write is scoped to one tenant; implementations must never
// leak rows across tenants.
package store

import (
	"context"
	"errors"

	"talent-intake/internal/models"
)

// ErrPostingNotFound is returned when the posting does not exist for the
// tenant.
var ErrPostingNotFound = errors.New("posting not found")

// PostingStore provides access to published job postings.
type PostingStore interface {
	// Get fetches a posting by tenant and id. Returns ErrPostingNotFound
	// when absent.
	Get(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error)

	// UpdateMetrics overwrites the advisory counters on a posting.
	UpdateMetrics(ctx context.Context, tenantID, postingID string, m models.PostingMetrics) error
}

// ApplicationStore provides access to submitted applications.
type ApplicationStore interface {
	// FindByEmail looks up an application for the posting by normalized
	// (lower-cased) email. Returns (nil, nil) when none exists.
	FindByEmail(ctx context.Context, tenantID, postingID, email string) (*models.Application, error)

	// CountForPosting counts applications persisted against the posting.
	CountForPosting(ctx context.Context, tenantID, postingID string) (int, error)

	// Create persists a new application.
	Create(ctx context.Context, app *models.Application) error

	// SetCandidateID back-links an application to its materialized profile.
	SetCandidateID(ctx context.Context, tenantID, applicationID, candidateID string) error
}

// CandidateStore provides access to candidate profiles.
type CandidateStore interface {
	Create(ctx context.Context, c *models.Candidate) error
}

// EventStore appends immutable audit events.
type EventStore interface {
	Append(ctx context.Context, e *models.IntakeEvent) error
}
