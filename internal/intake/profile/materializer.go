// internal/intake/profile/materializer.go
package profile

import (
	"context"
	"strings"
	"time"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"

	"github.com/google/uuid"
)

// Materializer derives a reusable candidate profile from an accepted
// application and back-links the application to it. Two sequential writes
// with no transaction: a failure after the candidate insert leaves an
// application without a back-reference, which the reconciliation job repairs.
type Materializer struct {
	candidates   store.CandidateStore
	applications store.ApplicationStore
	logger       logger.Logger
}

func New(candidates store.CandidateStore, applications store.ApplicationStore, log logger.Logger) *Materializer {
	return &Materializer{
		candidates:   candidates,
		applications: applications,
		logger:       log.WithFields(map[string]interface{}{"stage": "profile"}),
	}
}

// Materialize creates the candidate and patches the application with the
// candidate id.
func (m *Materializer) Materialize(ctx context.Context, app *models.Application) (*models.Candidate, error) {
	first, last := SplitName(app.Applicant.Name)

	candidate := &models.Candidate{
		TenantID:       app.TenantID,
		ID:             uuid.New().String(),
		FirstName:      first,
		LastName:       last,
		Email:          app.Applicant.Email,
		Phone:          app.Applicant.Phone,
		Source:         models.CandidateSourcePublicIntake,
		OwnerID:        "",
		Status:         models.CandidateStatusApplicant,
		Score:          0,
		SearchKeywords: strings.ToLower(strings.TrimSpace(app.Applicant.Name + " " + app.Applicant.Email)),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if err := m.candidates.Create(ctx, candidate); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError("create candidate", err)
	}

	if err := m.applications.SetCandidateID(ctx, app.TenantID, app.ID, candidate.ID); err != nil {
		// Candidate exists but the application lacks the back-reference.
		m.logger.Error("candidate back-link failed", map[string]interface{}{
			"error":         err,
			"applicationId": app.ID,
			"candidateId":   candidate.ID,
		})
		return candidate, apperrors.NewDatabaseInsertFailedError("set candidate id", err)
	}

	app.CandidateID = candidate.ID

	m.logger.Info("candidate profile created", map[string]interface{}{
		"tenantId":      candidate.TenantID,
		"candidateId":   candidate.ID,
		"applicationId": app.ID,
	})
	return candidate, nil
}

// SplitName splits a full name into the first word and the remainder.
func SplitName(full string) (string, string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
