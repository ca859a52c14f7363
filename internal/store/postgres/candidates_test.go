// internal/store/postgres/candidates_test.go
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

func TestCandidateCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	candidate := &models.Candidate{
		TenantID:       "t1",
		ID:             "cand-1",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@example.com",
		Phone:          "+15550100",
		Source:         models.CandidateSourcePublicIntake,
		Status:         models.CandidateStatusApplicant,
		Score:          0,
		SearchKeywords: "jane doe jane@example.com",
		CreatedAt:      "2026-08-28T10:00:00Z",
	}

	mock.ExpectExec("INSERT INTO candidates").
		WithArgs(
			"t1", "cand-1", "Jane", "Doe", "jane@example.com", "+15550100",
			"public-intake", "", "applicant", 0, "jane doe jane@example.com",
			"2026-08-28T10:00:00Z",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewCandidateStore(db)
	err = s.Create(context.Background(), candidate)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateCreate_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnError(errors.New("constraint violation"))

	s := NewCandidateStore(db)
	err = s.Create(context.Background(), &models.Candidate{TenantID: "t1", ID: "cand-1"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
