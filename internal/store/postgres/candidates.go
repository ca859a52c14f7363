// internal/store/postgres/candidates.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"talent-intake/internal/models"
)

// CandidateStore implements store.CandidateStore on PostgreSQL.
type CandidateStore struct {
	db *sql.DB
}

func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

func (s *CandidateStore) Create(ctx context.Context, c *models.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (
			tenant_id, id, first_name, last_name, email, phone,
			source, owner_id, status, score, search_keywords, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.TenantID, c.ID, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Source, c.OwnerID, c.Status, c.Score, c.SearchKeywords, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}
