// internal/intake/events/emitter.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "talent-intake/internal/common/errors"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/models"
	"talent-intake/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSPublisher is the slice of the SNS client the emitter needs.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Emitter appends one audit event per accepted application. The Postgres
// append is the durable record; the SNS publish afterwards is best-effort
// fan-out for downstream listeners.
type Emitter struct {
	events    store.EventStore
	publisher SNSPublisher
	topicARN  string
	logger    logger.Logger
}

func New(events store.EventStore, publisher SNSPublisher, topicARN string, log logger.Logger) *Emitter {
	return &Emitter{
		events:    events,
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log.WithFields(map[string]interface{}{"stage": "events"}),
	}
}

// DedupeKey derives the event's idempotency key deterministically from the
// application identity and acceptance timestamp, so a retried emission maps
// to the same key.
func DedupeKey(applicationID, acceptedAt string) string {
	ts, err := time.Parse(time.RFC3339, acceptedAt)
	if err != nil {
		return fmt.Sprintf("%s:%s:%s", models.EventTypeApplicationCreated, applicationID, acceptedAt)
	}
	return fmt.Sprintf("%s:%s:%d", models.EventTypeApplicationCreated, applicationID, ts.Unix())
}

// Emit appends the application_created event. The payload is a snapshot of
// the persisted application plus its posting linkage.
func (e *Emitter) Emit(ctx context.Context, app *models.Application) error {
	payload, err := applicationPayload(app)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("build event payload: %w", err))
	}

	event := &models.IntakeEvent{
		TenantID:   app.TenantID,
		EventType:  models.EventTypeApplicationCreated,
		EntityType: "application",
		EntityID:   app.ID,
		DedupeKey:  DedupeKey(app.ID, app.CreatedAt),
		Payload:    payload,
		CreatedAt:  app.CreatedAt,
	}

	if err := e.events.Append(ctx, event); err != nil {
		return apperrors.NewDatabaseInsertFailedError("append intake event", err)
	}

	e.publish(ctx, event)
	return nil
}

// publish fans the event out to SNS. Failures are logged and swallowed; the
// durable append above is the source of truth.
func (e *Emitter) publish(ctx context.Context, event *models.IntakeEvent) {
	if e.publisher == nil || e.topicARN == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		e.logger.Warn("event publish marshal failed", map[string]interface{}{
			"error":     err,
			"dedupeKey": event.DedupeKey,
		})
		return
	}

	_, err = e.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(e.topicARN),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		e.logger.Warn("event publish failed", map[string]interface{}{
			"error":     err,
			"dedupeKey": event.DedupeKey,
		})
	}
}

func applicationPayload(app *models.Application) (map[string]interface{}, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
