// internal/store/postgres/events.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"talent-intake/internal/models"
)

// EventStore implements store.EventStore on PostgreSQL. The intake_events
// table is append-only; nothing in this service updates or deletes rows.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Append(ctx context.Context, e *models.IntakeEvent) error {
	payloadJSON, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO intake_events (
			tenant_id, event_type, entity_type, entity_id,
			dedupe_key, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dedupe_key) DO NOTHING`,
		e.TenantID, e.EventType, e.EntityType, e.EntityID,
		e.DedupeKey, payloadJSON, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append intake event: %w", err)
	}
	return nil
}
