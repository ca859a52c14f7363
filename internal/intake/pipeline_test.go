// internal/intake/pipeline_test.go
package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/intake/admission"
	"talent-intake/internal/intake/aggregate"
	"talent-intake/internal/intake/events"
	"talent-intake/internal/intake/gate"
	"talent-intake/internal/intake/notify"
	"talent-intake/internal/intake/profile"
	"talent-intake/internal/intake/record"
	"talent-intake/internal/intake/validate"
	"talent-intake/internal/models"
	"talent-intake/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a single in-memory backing for all store interfaces so the
// pipeline runs end to end without Postgres.
type memStore struct {
	postings     map[string]*models.JobPosting
	applications []*models.Application
	candidates   []*models.Candidate
	events       []*models.IntakeEvent
}

func newMemStore() *memStore {
	return &memStore{postings: make(map[string]*models.JobPosting)}
}

func (s *memStore) key(tenantID, postingID string) string {
	return tenantID + "/" + postingID
}

func (s *memStore) addPosting(p *models.JobPosting) {
	s.postings[s.key(p.TenantID, p.ID)] = p
}

func (s *memStore) Get(ctx context.Context, tenantID, postingID string) (*models.JobPosting, error) {
	p, ok := s.postings[s.key(tenantID, postingID)]
	if !ok {
		return nil, store.ErrPostingNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) UpdateMetrics(ctx context.Context, tenantID, postingID string, m models.PostingMetrics) error {
	p, ok := s.postings[s.key(tenantID, postingID)]
	if !ok {
		return store.ErrPostingNotFound
	}
	p.Metrics = m
	return nil
}

func (s *memStore) FindByEmail(ctx context.Context, tenantID, postingID, email string) (*models.Application, error) {
	for _, app := range s.applications {
		if app.TenantID == tenantID && app.PostingID == postingID &&
			strings.EqualFold(app.Applicant.Email, email) {
			return app, nil
		}
	}
	return nil, nil
}

func (s *memStore) CountForPosting(ctx context.Context, tenantID, postingID string) (int, error) {
	count := 0
	for _, app := range s.applications {
		if app.TenantID == tenantID && app.PostingID == postingID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Create(ctx context.Context, app *models.Application) error {
	s.applications = append(s.applications, app)
	return nil
}

func (s *memStore) SetCandidateID(ctx context.Context, tenantID, applicationID, candidateID string) error {
	for _, app := range s.applications {
		if app.TenantID == tenantID && app.ID == applicationID {
			app.CandidateID = candidateID
			return nil
		}
	}
	return errors.New("application not found")
}

func (s *memStore) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	s.candidates = append(s.candidates, c)
	return nil
}

func (s *memStore) Append(ctx context.Context, e *models.IntakeEvent) error {
	s.events = append(s.events, e)
	return nil
}

// candidateStore adapts memStore to the CandidateStore interface; Create is
// already taken by ApplicationStore.
type candidateStore struct{ s *memStore }

func (c candidateStore) Create(ctx context.Context, cand *models.Candidate) error {
	return c.s.CreateCandidate(ctx, cand)
}

type fakeSESClient struct {
	sent    int
	sendErr error
}

func (f *fakeSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.sent++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &ses.SendEmailOutput{}, nil
}

func newTestPipeline(t *testing.T, s *memStore, sesClient notify.SESService) *Pipeline {
	log := logger.NewTestLogger(t)

	validator, err := validate.New(log)
	require.NoError(t, err)

	return NewPipeline(
		validator,
		gate.New(s, log),
		admission.New(s, log),
		record.New(s, log),
		aggregate.New(s, log),
		events.New(s, nil, "", log),
		profile.New(candidateStore{s}, s, log),
		notify.New(sesClient, "noreply@example.com", sesClient != nil, log),
		nil,
		log,
	)
}

func intPtr(n int) *int { return &n }

func openPosting(capacity *int) *models.JobPosting {
	return &models.JobPosting{
		TenantID:      "t1",
		ID:            "P1",
		Title:         "Store Manager",
		Visibility:    models.VisibilityPublic,
		Status:        models.PostingStatusPosted,
		CapacityLimit: capacity,
		Metrics:       models.PostingMetrics{ViewCount: 100, ApplicationCount: 0},
	}
}

func submitBody(email string) []byte {
	return []byte(`{
		"tenantId": "t1",
		"postId": "P1",
		"applicant": {"name": "Jane Doe", "email": "` + email + `", "phone": "+15550100"},
		"workAuth": "citizen",
		"source": "URL",
		"answers": [{"questionId": "q1", "answer": "Weekends OK"}],
		"consents": ["terms"]
	}`)
}

func TestSubmit_AcceptedEndToEnd(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	sesClient := &fakeSESClient{}
	p := newTestPipeline(t, s, sesClient)

	resp, err := p.Submit(context.Background(), submitBody("jane@example.com"))

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "applied", resp.Action)
	assert.Equal(t, "t1", resp.TenantID)
	assert.Equal(t, "P1", resp.PostID)
	assert.NotEmpty(t, resp.ApplicationID)
	assert.Equal(t, "Your application has been received", resp.Message)

	// Application persisted with status new.
	require.Len(t, s.applications, 1)
	app := s.applications[0]
	assert.Equal(t, resp.ApplicationID, app.ID)
	assert.Equal(t, models.ApplicationStatusNew, app.Status)

	// Aggregate counters advanced off the gate-time snapshot.
	posting := s.postings["t1/P1"]
	assert.Equal(t, 1, posting.Metrics.ApplicationCount)
	assert.InDelta(t, 0.01, posting.Metrics.ConversionRate, 1e-9)

	// Audit event appended with a deterministic dedupe key.
	require.Len(t, s.events, 1)
	assert.Equal(t, models.EventTypeApplicationCreated, s.events[0].EventType)
	assert.Equal(t, app.ID, s.events[0].EntityID)
	assert.Equal(t, events.DedupeKey(app.ID, app.CreatedAt), s.events[0].DedupeKey)

	// Candidate profile materialized and back-linked.
	require.Len(t, s.candidates, 1)
	assert.Equal(t, s.candidates[0].ID, app.CandidateID)
	assert.Equal(t, models.CandidateSourcePublicIntake, s.candidates[0].Source)

	// Confirmation email went out.
	assert.Equal(t, 1, sesClient.sent)
}

func TestSubmit_ValidationFailureWritesNothing(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	p := newTestPipeline(t, s, nil)

	resp, err := p.Submit(context.Background(), []byte(`{"tenantId": "t1"}`))

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.Normalize(err).Code)

	assert.Empty(t, s.applications)
	assert.Empty(t, s.candidates)
	assert.Empty(t, s.events)
	assert.Equal(t, 0, s.postings["t1/P1"].Metrics.ApplicationCount)
}

func TestSubmit_UnknownPosting(t *testing.T) {
	s := newMemStore()
	p := newTestPipeline(t, s, nil)

	resp, err := p.Submit(context.Background(), submitBody("jane@example.com"))

	assert.Nil(t, resp)
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodePostingNotFound, stdErr.Code)
	assert.Equal(t, "This position is no longer available", stdErr.Message)
	assert.Empty(t, s.applications)
}

func TestSubmit_ClosedLifecycleRejections(t *testing.T) {
	tests := []struct {
		name       string
		visibility string
		status     string
		wantCode   apperrors.ErrorCode
	}{
		{"private posting", models.VisibilityPrivate, models.PostingStatusPosted, apperrors.ErrCodePostingNotPublic},
		{"draft posting", models.VisibilityPublic, models.PostingStatusDraft, apperrors.ErrCodePostingNotAccepting},
		{"closed posting", models.VisibilityPublic, models.PostingStatusClosed, apperrors.ErrCodePostingNotAccepting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			posting := openPosting(nil)
			posting.Visibility = tt.visibility
			posting.Status = tt.status
			s.addPosting(posting)
			p := newTestPipeline(t, s, nil)

			resp, err := p.Submit(context.Background(), submitBody("jane@example.com"))

			assert.Nil(t, resp)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.Normalize(err).Code)
			assert.Empty(t, s.applications)
		})
	}
}

func TestSubmit_DuplicateRejectedOnSecondAttempt(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	p := newTestPipeline(t, s, nil)

	_, err := p.Submit(context.Background(), submitBody("jane@example.com"))
	require.NoError(t, err)

	resp, err := p.Submit(context.Background(), submitBody("jane@example.com"))

	assert.Nil(t, resp)
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, stdErr.Code)
	assert.Equal(t, "You have already applied to this position", stdErr.Message)
	assert.Len(t, s.applications, 1)
}

func TestSubmit_DuplicateCaseInsensitiveEmail(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	p := newTestPipeline(t, s, nil)

	_, err := p.Submit(context.Background(), submitBody("jane@example.com"))
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), submitBody("JANE@EXAMPLE.COM"))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, apperrors.Normalize(err).Code)
}

func TestSubmit_CapacityOfOne(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(intPtr(1)))
	p := newTestPipeline(t, s, nil)

	// First applicant fills the only slot.
	resp, err := p.Submit(context.Background(), submitBody("a@x.com"))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Same submitter again: the duplicate check fires before capacity.
	_, err = p.Submit(context.Background(), submitBody("a@x.com"))
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, stdErr.Code)
	assert.Equal(t, "You have already applied to this position", stdErr.Message)

	// A different submitter hits the capacity wall.
	_, err = p.Submit(context.Background(), submitBody("b@x.com"))
	require.Error(t, err)
	stdErr = apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeCapacityExceeded, stdErr.Code)
	assert.Equal(t, "This position has reached its application limit", stdErr.Message)

	assert.Len(t, s.applications, 1)
}

func TestSubmit_CapacityFillsExactly(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(intPtr(3)))
	p := newTestPipeline(t, s, nil)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := p.Submit(context.Background(), submitBody(email))
		require.NoError(t, err, "applicant %s should fit", email)
	}

	_, err := p.Submit(context.Background(), submitBody("d@x.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCapacityExceeded, apperrors.Normalize(err).Code)
	assert.Len(t, s.applications, 3)
}

func TestSubmit_NotifierFailureStillAccepted(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	sesClient := &fakeSESClient{sendErr: errors.New("rate exceeded")}
	p := newTestPipeline(t, s, sesClient)

	resp, err := p.Submit(context.Background(), submitBody("jane@example.com"))

	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Durable record, event, and profile all exist despite the failed email.
	assert.Len(t, s.applications, 1)
	assert.Len(t, s.events, 1)
	assert.Len(t, s.candidates, 1)
	assert.Equal(t, 1, sesClient.sent)
}

func TestSubmit_SameEmailDifferentPostings(t *testing.T) {
	s := newMemStore()
	s.addPosting(openPosting(nil))
	second := openPosting(nil)
	second.ID = "P2"
	s.addPosting(second)
	p := newTestPipeline(t, s, nil)

	_, err := p.Submit(context.Background(), submitBody("jane@example.com"))
	require.NoError(t, err)

	body := []byte(`{
		"tenantId": "t1",
		"postId": "P2",
		"applicant": {"name": "Jane Doe", "email": "jane@example.com"},
		"workAuth": "citizen",
		"source": "URL"
	}`)
	resp, err := p.Submit(context.Background(), body)

	// The duplicate guard is scoped per posting.
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, s.applications, 2)
}
