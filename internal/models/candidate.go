// internal/models/candidate.go
package models

// CandidateSourcePublicIntake tags profiles materialized from public
// submissions.
const CandidateSourcePublicIntake = "public-intake"

// CandidateStatusApplicant is the lifecycle status of a freshly materialized
// profile.
const CandidateStatusApplicant = "applicant"

// Candidate is the reusable contact profile derived from exactly one
// application.
type Candidate struct {
	TenantID       string `json:"tenantId"`
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Source         string `json:"source"`
	OwnerID        string `json:"ownerId"` // unassigned placeholder until routed
	Status         string `json:"status"`
	Score          int    `json:"score"` // computed by an external scorer
	SearchKeywords string `json:"searchKeywords"`
	CreatedAt      string `json:"createdAt"`
}
