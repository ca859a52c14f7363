// Package intake orchestrates the public submission pipeline:
// validate -> gate -> admission -> record -> aggregate -> events -> profile
// -> notify -> search. Everything before record aborts the request cleanly;
// everything after record is part of a saga whose failures are logged for
// reconciliation but never reported to the applicant.
package intake

import (
	"context"
	"time"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/common/metrics"
	"talent-intake/internal/intake/admission"
	"talent-intake/internal/intake/aggregate"
	"talent-intake/internal/intake/events"
	"talent-intake/internal/intake/gate"
	"talent-intake/internal/intake/notify"
	"talent-intake/internal/intake/profile"
	"talent-intake/internal/intake/record"
	"talent-intake/internal/intake/search"
	"talent-intake/internal/intake/validate"
	"talent-intake/internal/models"
)

// Pipeline wires the intake stages together. One Pipeline serves all
// tenants; per-request state never leaves Submit.
type Pipeline struct {
	validator    *validate.Validator
	gate         *gate.Gate
	admission    *admission.Controller
	writer       *record.Writer
	aggregator   *aggregate.Updater
	emitter      *events.Emitter
	materializer *profile.Materializer
	notifier     *notify.Notifier
	indexer      *search.Indexer // optional
	logger       logger.Logger
}

func NewPipeline(
	validator *validate.Validator,
	g *gate.Gate,
	adm *admission.Controller,
	writer *record.Writer,
	aggregator *aggregate.Updater,
	emitter *events.Emitter,
	materializer *profile.Materializer,
	notifier *notify.Notifier,
	indexer *search.Indexer,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		validator:    validator,
		gate:         g,
		admission:    adm,
		writer:       writer,
		aggregator:   aggregator,
		emitter:      emitter,
		materializer: materializer,
		notifier:     notifier,
		indexer:      indexer,
		logger:       log.WithFields(map[string]interface{}{"component": "intake-pipeline"}),
	}
}

// Submit runs one raw request body through the whole pipeline. A non-nil
// error means the request was rejected or failed before the durability
// boundary; once the application row exists, Submit always returns success.
func (p *Pipeline) Submit(ctx context.Context, raw []byte) (*models.SubmitResponse, error) {
	req, err := p.timedValidate(raw)
	if err != nil {
		metrics.ApplicationsRejected.WithLabelValues("unknown", string(apperrors.Normalize(err).Code)).Inc()
		return nil, err
	}

	posting, err := p.timedGate(ctx, req)
	if err != nil {
		metrics.ApplicationsRejected.WithLabelValues(req.TenantID, string(apperrors.Normalize(err).Code)).Inc()
		return nil, err
	}

	if err := p.timedAdmit(ctx, req, posting); err != nil {
		metrics.ApplicationsRejected.WithLabelValues(req.TenantID, string(apperrors.Normalize(err).Code)).Inc()
		return nil, err
	}

	app, err := p.timedWrite(ctx, req)
	if err != nil {
		metrics.ApplicationsRejected.WithLabelValues(req.TenantID, string(apperrors.Normalize(err).Code)).Inc()
		return nil, err
	}

	// Durability boundary crossed. Every failure below is logged with
	// enough context to reconcile later and never flips the response.
	p.runPostDurability(ctx, "aggregate", app.ID, func() error {
		return p.aggregator.Apply(ctx, posting)
	})
	p.runPostDurability(ctx, "events", app.ID, func() error {
		return p.emitter.Emit(ctx, app)
	})
	p.runPostDurability(ctx, "profile", app.ID, func() error {
		_, err := p.materializer.Materialize(ctx, app)
		return err
	})
	p.runPostDurability(ctx, "notify", app.ID, func() error {
		return p.notifier.SendConfirmation(ctx, app, posting)
	})
	if p.indexer != nil {
		p.runPostDurability(ctx, "search", app.ID, func() error {
			return p.indexer.Index(ctx, app)
		})
	}

	metrics.ApplicationsAccepted.WithLabelValues(req.TenantID).Inc()

	return &models.SubmitResponse{
		Success:       true,
		Action:        "applied",
		ApplicationID: app.ID,
		TenantID:      req.TenantID,
		PostID:        req.PostID,
		Message:       "Your application has been received",
	}, nil
}

func (p *Pipeline) timedValidate(raw []byte) (*models.SubmitRequest, error) {
	defer stageTimer("validate")()
	return p.validator.Validate(raw)
}

func (p *Pipeline) timedGate(ctx context.Context, req *models.SubmitRequest) (*models.JobPosting, error) {
	defer stageTimer("gate")()
	return p.gate.Check(ctx, req.TenantID, req.PostID)
}

func (p *Pipeline) timedAdmit(ctx context.Context, req *models.SubmitRequest, posting *models.JobPosting) error {
	defer stageTimer("admission")()
	return p.admission.Admit(ctx, req, posting)
}

func (p *Pipeline) timedWrite(ctx context.Context, req *models.SubmitRequest) (*models.Application, error) {
	defer stageTimer("record")()
	return p.writer.Write(ctx, req)
}

func (p *Pipeline) runPostDurability(_ context.Context, stage, applicationID string, fn func() error) {
	defer stageTimer(stage)()

	if err := fn(); err != nil {
		stdErr := apperrors.Normalize(err)
		metrics.PostDurabilityFailures.WithLabelValues(stage).Inc()
		p.logger.Error("post-durability stage failed", map[string]interface{}{
			"stage":         stage,
			"applicationId": applicationID,
			"errorCode":     string(stdErr.Code),
			"details":       stdErr.Details,
		})
	}
}

func stageTimer(stage string) func() {
	start := time.Now()
	return func() {
		metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
