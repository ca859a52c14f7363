// internal/models/application.go
package models

// Work authorization categories.
const (
	WorkAuthCitizen           = "citizen"
	WorkAuthPermanentResident = "permanent_resident"
	WorkAuthWorkVisa          = "work_visa"
	WorkAuthOther             = "other"
)

// Acquisition sources.
const (
	SourceQR        = "QR"
	SourceURL       = "URL"
	SourceReferral  = "referral"
	SourceCompanion = "Companion"
	SourceIndeed    = "Indeed"
	SourceLinkedIn  = "LinkedIn"
)

// ApplicationStatusNew is the only status the intake pipeline sets; later
// transitions belong to the review workflow.
const ApplicationStatusNew = "new"

// Applicant is the submitter identity carried on an application.
type Applicant struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	ResumeURL string `json:"resumeUrl,omitempty"`
}

// Answer is one free-form response to a posting-defined question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// Application is one accepted submission against a posting. Identity is
// immutable once created.
type Application struct {
	TenantID       string            `json:"tenantId"`
	ID             string            `json:"id"`
	PostingID      string            `json:"postingId"`
	Applicant      Applicant         `json:"applicant"`
	WorkAuth       string            `json:"workAuth"`
	Source         string            `json:"source"`
	UTM            map[string]string `json:"utm,omitempty"`
	ReferralCode   string            `json:"referralCode,omitempty"`
	Answers        []Answer          `json:"answers"`
	Consents       []string          `json:"consents"`
	Status         string            `json:"status"`
	SearchKeywords string            `json:"searchKeywords"`
	CandidateID    string            `json:"candidateId,omitempty"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

// SubmitRequest is the validated inbound payload of the public intake
// endpoint.
type SubmitRequest struct {
	TenantID     string            `json:"tenantId"`
	PostID       string            `json:"postId"`
	Applicant    Applicant         `json:"applicant"`
	WorkAuth     string            `json:"workAuth"`
	Answers      []Answer          `json:"answers"`
	Source       string            `json:"source"`
	UTM          map[string]string `json:"utm,omitempty"`
	ReferralCode string            `json:"referralCode,omitempty"`
	Consents     []string          `json:"consents"`
}

// SubmitResponse is the success body of the public intake endpoint.
type SubmitResponse struct {
	Success       bool   `json:"success"`
	Action        string `json:"action"`
	ApplicationID string `json:"applicationId"`
	TenantID      string `json:"tenantId"`
	PostID        string `json:"postId"`
	Message       string `json:"message"`
}
