// internal/intake/admission/admission.go
package admission

import (
	"context"
	"strings"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"
)

// Controller runs the duplicate and capacity checks against applications
// already persisted for the posting.
//
// Both checks are read-then-decide and are not linearizable against
// concurrent acceptances: two requests racing on the same email or at the
// exact capacity boundary can both pass. Per-posting serialization was
// judged more expensive than the rarity of the race for this workload; the
// trade-off is recorded in DESIGN.md.
type Controller struct {
	applications store.ApplicationStore
	logger       logger.Logger
}

func New(applications store.ApplicationStore, log logger.Logger) *Controller {
	return &Controller{
		applications: applications,
		logger:       log.WithFields(map[string]interface{}{"stage": "admission"}),
	}
}

// Admit rejects the draft when the submitter already applied or when the
// posting's capacity is exhausted. Counts come from the application store,
// never from the posting's cached counter.
func (c *Controller) Admit(ctx context.Context, req *models.SubmitRequest, posting *models.JobPosting) error {
	email := strings.ToLower(strings.TrimSpace(req.Applicant.Email))

	existing, err := c.applications.FindByEmail(ctx, req.TenantID, req.PostID, email)
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError("duplicate check", err)
	}
	if existing != nil {
		c.logger.Info("duplicate application rejected", map[string]interface{}{
			"tenantId":  req.TenantID,
			"postingId": req.PostID,
		})
		return apperrors.NewDuplicateApplicationError(req.PostID)
	}

	if posting.CapacityLimit != nil {
		count, err := c.applications.CountForPosting(ctx, req.TenantID, req.PostID)
		if err != nil {
			return apperrors.NewDatabaseQueryFailedError("capacity check", err)
		}
		if count >= *posting.CapacityLimit {
			c.logger.Info("capacity exceeded", map[string]interface{}{
				"tenantId":      req.TenantID,
				"postingId":     req.PostID,
				"capacityLimit": *posting.CapacityLimit,
				"count":         count,
			})
			return apperrors.NewCapacityExceededError(req.PostID, *posting.CapacityLimit)
		}
	}

	return nil
}
