// internal/intake/search/indexer.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer mirrors accepted applications into Elasticsearch for recruiter
// search. It runs after the durability boundary and is best-effort: the
// Postgres row is the source of truth and a failed index is re-driven by
// the reconciliation job.
type Indexer struct {
	client *elasticsearch.Client
	logger logger.Logger
}

func New(client *elasticsearch.Client, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		logger: log.WithFields(map[string]interface{}{"stage": "search"}),
	}
}

// IndexName returns the per-tenant application index.
func IndexName(tenantID string) string {
	return fmt.Sprintf("applications-%s", tenantID)
}

// Document is the searchable projection of an application.
type Document struct {
	ApplicationID string `json:"applicationId"`
	PostingID     string `json:"postingId"`
	CandidateName string `json:"candidateName"`
	Email         string `json:"email"`
	WorkAuth      string `json:"workAuth"`
	Source        string `json:"source"`
	Keywords      string `json:"keywords"`
	SubmittedAt   string `json:"submittedAt"`
}

// BuildDocument projects an application into its search document.
func BuildDocument(app *models.Application) Document {
	return Document{
		ApplicationID: app.ID,
		PostingID:     app.PostingID,
		CandidateName: app.Applicant.Name,
		Email:         app.Applicant.Email,
		WorkAuth:      app.WorkAuth,
		Source:        app.Source,
		Keywords:      app.SearchKeywords,
		SubmittedAt:   app.CreatedAt,
	}
}

// Index writes the application's search document, keyed by application id so
// a retry overwrites instead of duplicating.
func (x *Indexer) Index(ctx context.Context, app *models.Application) error {
	if x.client == nil {
		return nil
	}

	doc := BuildDocument(app)
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("marshal search document: %w", err))
	}

	res, err := x.client.Index(
		IndexName(app.TenantID),
		bytes.NewReader(body),
		x.client.Index.WithDocumentID(app.ID),
		x.client.Index.WithContext(ctx),
	)
	if err != nil {
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeSearchIndexFailed,
			Message:   "search index failed",
			Details:   err.Error(),
			Retryable: true,
		}
	}
	defer res.Body.Close()

	if res.IsError() {
		return &apperrors.StandardError{
			Code:      apperrors.ErrCodeSearchIndexFailed,
			Message:   "search index failed",
			Details:   res.Status(),
			Retryable: true,
		}
	}

	return nil
}
