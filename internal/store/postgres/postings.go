// internal/store/postgres/postings.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"talent-intake/internal/models"
	"talent-intake/internal/store"
)

// PostingStore implements store.PostingStore on PostgreSQL.
type PostingStore struct {
	db *sql.DB
}

func NewPostingStore(db *sql.DB) *PostingStore {
	return &PostingStore{db: db}
}

func (s *PostingStore) Get(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error) {
	var (
		p             models.JobPosting
		capacityLimit sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, visibility, status, capacity_limit,
		       view_count, application_count, conversion_rate,
		       owner_id, created_at, updated_at
		FROM job_postings
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, postingID,
	).Scan(
		&p.ID, &p.Title, &p.Visibility, &p.Status, &capacityLimit,
		&p.Metrics.ViewCount, &p.Metrics.ApplicationCount, &p.Metrics.ConversionRate,
		&p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrPostingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get posting: %w", err)
	}

	p.TenantID = tenantID
	if capacityLimit.Valid {
		limit := int(capacityLimit.Int64)
		p.CapacityLimit = &limit
	}
	return &p, nil
}

func (s *PostingStore) UpdateMetrics(ctx context.Context, tenantID, postingID string, m models.PostingMetrics) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE job_postings
		SET application_count = $3, conversion_rate = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, postingID,
		m.ApplicationCount, m.ConversionRate,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("update posting metrics: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return store.ErrPostingNotFound
	}
	return nil
}
