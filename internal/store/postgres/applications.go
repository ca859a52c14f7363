// internal/store/postgres/applications.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"talent-intake/internal/models"
)

// ApplicationStore implements store.ApplicationStore on PostgreSQL.
type ApplicationStore struct {
	db *sql.DB
}

func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) FindByEmail(ctx context.Context, tenantID, postingID, email string) (*models.Application, error) {
	var (
		app         models.Application
		utmJSON     []byte
		answersJSON []byte
		candidateID sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, candidate_name, candidate_email, candidate_phone,
		       work_auth, source, utm, answers, status, candidate_id, created_at
		FROM applications
		WHERE tenant_id = $1 AND posting_id = $2 AND LOWER(candidate_email) = $3
		LIMIT 1`,
		tenantID, postingID, strings.ToLower(email),
	).Scan(
		&app.ID, &app.Applicant.Name, &app.Applicant.Email, &app.Applicant.Phone,
		&app.WorkAuth, &app.Source, &utmJSON, &answersJSON, &app.Status,
		&candidateID, &app.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application by email: %w", err)
	}

	app.TenantID = tenantID
	app.PostingID = postingID
	if candidateID.Valid {
		app.CandidateID = candidateID.String
	}
	if len(utmJSON) > 0 {
		_ = json.Unmarshal(utmJSON, &app.UTM)
	}
	if len(answersJSON) > 0 {
		_ = json.Unmarshal(answersJSON, &app.Answers)
	}
	return &app, nil
}

func (s *ApplicationStore) CountForPosting(ctx context.Context, tenantID, postingID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM applications
		WHERE tenant_id = $1 AND posting_id = $2`,
		tenantID, postingID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

func (s *ApplicationStore) Create(ctx context.Context, app *models.Application) error {
	utmJSON, err := json.Marshal(app.UTM)
	if err != nil {
		return fmt.Errorf("marshal utm: %w", err)
	}
	answersJSON, err := json.Marshal(app.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	consentsJSON, err := json.Marshal(app.Consents)
	if err != nil {
		return fmt.Errorf("marshal consents: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (
			tenant_id, id, posting_id,
			candidate_name, candidate_email, candidate_phone, resume_url,
			work_auth, source, utm, referral_code, answers, consents,
			status, search_keywords, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`,
		app.TenantID, app.ID, app.PostingID,
		app.Applicant.Name, app.Applicant.Email, app.Applicant.Phone, app.Applicant.ResumeURL,
		app.WorkAuth, app.Source, utmJSON, app.ReferralCode, answersJSON, consentsJSON,
		app.Status, app.SearchKeywords, app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *ApplicationStore) SetCandidateID(ctx context.Context, tenantID, applicationID, candidateID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE applications
		SET candidate_id = $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, applicationID, candidateID,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set candidate id: %w", err)
	}
	return nil
}
