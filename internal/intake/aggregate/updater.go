// internal/intake/aggregate/updater.go
package aggregate

import (
	"context"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"
)

// Updater maintains the advisory counters on the parent posting. The
// increment is based on the metric snapshot read at gate time, not a
// re-read, so concurrent acceptances can base their increment on a stale
// value. The counter is telemetry; the authoritative count is always a
// query over applications.
type Updater struct {
	postings store.PostingStore
	logger   logger.Logger
}

func New(postings store.PostingStore, log logger.Logger) *Updater {
	return &Updater{
		postings: postings,
		logger:   log.WithFields(map[string]interface{}{"stage": "aggregate"}),
	}
}

// Apply increments the application count and recomputes the conversion rate
// from the gate-time snapshot carried on the posting.
func (u *Updater) Apply(ctx context.Context, posting *models.JobPosting) error {
	next := models.PostingMetrics{
		ViewCount:        posting.Metrics.ViewCount,
		ApplicationCount: posting.Metrics.ApplicationCount + 1,
	}

	views := posting.Metrics.ViewCount
	if views < 1 {
		views = 1
	}
	next.ConversionRate = float64(next.ApplicationCount) / float64(views)

	if err := u.postings.UpdateMetrics(ctx, posting.TenantID, posting.ID, next); err != nil {
		return apperrors.NewDatabaseInsertFailedError("update posting metrics", err)
	}

	u.logger.Debug("posting metrics updated", map[string]interface{}{
		"postingId":        posting.ID,
		"applicationCount": next.ApplicationCount,
		"conversionRate":   next.ConversionRate,
	})
	return nil
}
