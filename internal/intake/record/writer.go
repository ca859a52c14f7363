// internal/intake/record/writer.go
package record

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

// Writer persists the canonical application record. This is the durability
// boundary: once Write succeeds the request is logically accepted even if a
// later stage fails.
type Writer struct {
	applications store.ApplicationStore
	logger       logger.Logger
}

func New(applications store.ApplicationStore, log logger.Logger) *Writer {
	return &Writer{
		applications: applications,
		logger:       log.WithFields(map[string]interface{}{"stage": "record"}),
	}
}

// Write creates the application with status "new" and acceptance-time
// timestamps.
func (w *Writer) Write(ctx context.Context, req *models.SubmitRequest) (*models.Application, error) {
	acceptedAt := time.Now().UTC().Format(time.RFC3339)

	app := &models.Application{
		TenantID:       req.TenantID,
		ID:             uuid.New().String(),
		PostingID:      req.PostID,
		Applicant:      req.Applicant,
		WorkAuth:       req.WorkAuth,
		Source:         req.Source,
		UTM:            req.UTM,
		ReferralCode:   req.ReferralCode,
		Answers:        req.Answers,
		Consents:       req.Consents,
		Status:         models.ApplicationStatusNew,
		SearchKeywords: BuildSearchKeywords(req),
		CreatedAt:      acceptedAt,
		UpdatedAt:      acceptedAt,
	}

	if err := w.applications.Create(ctx, app); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError("create application", err)
	}

	w.logger.Info("application record created", map[string]interface{}{
		"tenantId":      app.TenantID,
		"applicationId": app.ID,
		"postingId":     app.PostingID,
		"source":        app.Source,
	})

	return app, nil
}

// BuildSearchKeywords derives the flat keyword string used for recruiter-side
// text search: lower-cased submitter identity, free-text answers, and
// classification tags.
func BuildSearchKeywords(req *models.SubmitRequest) string {
	parts := []string{
		req.Applicant.Name,
		req.Applicant.Email,
		req.Applicant.Phone,
	}
	for _, a := range req.Answers {
		parts = append(parts, a.Answer)
	}
	parts = append(parts, req.WorkAuth, req.Source)

	kept := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}
