// internal/store/postgres/events_test.go
package postgres

import (
	"context"
	"errors"
	"testing"

	"talent-intake/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := &models.IntakeEvent{
		TenantID:   "t1",
		EventType:  models.EventTypeApplicationCreated,
		EntityType: "application",
		EntityID:   "app-1",
		DedupeKey:  "application_created:app-1:1787911200",
		Payload:    map[string]interface{}{"id": "app-1"},
		CreatedAt:  "2026-08-28T10:00:00Z",
	}

	mock.ExpectExec("INSERT INTO intake_events").
		WithArgs(
			"t1", "application_created", "application", "app-1",
			"application_created:app-1:1787911200",
			[]byte(`{"id":"app-1"}`),
			"2026-08-28T10:00:00Z",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewEventStore(db)
	err = s.Append(context.Background(), event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventAppend_DuplicateKeyIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// ON CONFLICT DO NOTHING: zero rows affected is still success.
	mock.ExpectExec("INSERT INTO intake_events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewEventStore(db)
	err = s.Append(context.Background(), &models.IntakeEvent{
		TenantID:  "t1",
		EventType: models.EventTypeApplicationCreated,
		DedupeKey: "application_created:app-1:1787911200",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventAppend_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO intake_events").
		WillReturnError(errors.New("disk full"))

	s := NewEventStore(db)
	err = s.Append(context.Background(), &models.IntakeEvent{TenantID: "t1"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
