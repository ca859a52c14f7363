// internal/models/event.go
package models

// EventTypeApplicationCreated is emitted once per accepted application.
const EventTypeApplicationCreated = "application_created"

// IntakeEvent is an append-only audit record consumed by downstream
// listeners. DedupeKey is unique per (entity, operation, timestamp) so a
// retried emission is idempotent at the consumer's discretion.
type IntakeEvent struct {
	TenantID   string                 `json:"tenantId"`
	EventType  string                 `json:"eventType"`
	EntityType string                 `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	DedupeKey  string                 `json:"dedupeKey"`
	Payload    map[string]interface{} `json:"payload"`
	CreatedAt  string                 `json:"createdAt"`
}
