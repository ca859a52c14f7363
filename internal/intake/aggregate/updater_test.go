// internal/intake/aggregate/updater_test.go
package aggregate

import (
	"context"
	"errors"
	"testing"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostingStore struct {
	updated   *models.PostingMetrics
	updateErr error
}

func (f *fakePostingStore) Get(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error) {
	return nil, nil
}

func (f *fakePostingStore) UpdateMetrics(ctx context.Context, tenantID, postingID string, m models.PostingMetrics) error {
	f.updated = &m
	return f.updateErr
}

func TestApply_IncrementsFromSnapshot(t *testing.T) {
	store := &fakePostingStore{}
	u := New(store, logger.NewTestLogger(t))

	err := u.Apply(context.Background(), &models.JobPosting{
		TenantID: "t1",
		ID:       "P1",
		Metrics:  models.PostingMetrics{ViewCount: 200, ApplicationCount: 9},
	})

	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, 10, store.updated.ApplicationCount)
	assert.Equal(t, 200, store.updated.ViewCount)
	assert.InDelta(t, 0.05, store.updated.ConversionRate, 1e-9)
}

func TestApply_ZeroViewsFlooredForRate(t *testing.T) {
	store := &fakePostingStore{}
	u := New(store, logger.NewTestLogger(t))

	err := u.Apply(context.Background(), &models.JobPosting{
		TenantID: "t1",
		ID:       "P1",
		Metrics:  models.PostingMetrics{ViewCount: 0, ApplicationCount: 0},
	})

	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, 1, store.updated.ApplicationCount)
	assert.Equal(t, 0, store.updated.ViewCount)
	assert.InDelta(t, 1.0, store.updated.ConversionRate, 1e-9)
}

func TestApply_UpdateFailure(t *testing.T) {
	store := &fakePostingStore{updateErr: errors.New("deadlock")}
	u := New(store, logger.NewTestLogger(t))

	err := u.Apply(context.Background(), &models.JobPosting{
		TenantID: "t1",
		ID:       "P1",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, apperrors.Normalize(err).Code)
}
