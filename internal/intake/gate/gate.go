// internal/intake/gate/gate.go
package gate

import (
	"context"
	"errors"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"
)

// Gate loads the target posting and checks its lifecycle state. It is
// read-only; capacity is the admission controller's concern. Existence and
// lifecycle checks are cheap and short-circuit before the admission queries.
type Gate struct {
	postings store.PostingStore
	logger   logger.Logger
}

func New(postings store.PostingStore, log logger.Logger) *Gate {
	return &Gate{
		postings: postings,
		logger:   log.WithFields(map[string]interface{}{"stage": "gate"}),
	}
}

// Check fetches the posting and verifies it is public and accepting.
func (g *Gate) Check(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error) {
	posting, err := g.postings.Get(ctx, tenantID, postingID)
	if err != nil {
		if errors.Is(err, store.ErrPostingNotFound) {
			return nil, apperrors.NewPostingNotFoundError(tenantID, postingID)
		}
		return nil, apperrors.NewDatabaseQueryFailedError("get posting", err)
	}

	if !posting.IsPublic() {
		return nil, apperrors.NewPostingNotPublicError(posting.Visibility)
	}
	if !posting.IsAccepting() {
		return nil, apperrors.NewPostingNotAcceptingError(posting.Status)
	}

	return posting, nil
}
