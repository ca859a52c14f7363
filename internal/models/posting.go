// internal/models/posting.go
package models

// Posting visibility values.
const (
	VisibilityPublic     = "public"
	VisibilityPrivate    = "private"
	VisibilityRestricted = "restricted"
)

// Posting lifecycle statuses.
const (
	PostingStatusDraft   = "draft"
	PostingStatusPosted  = "posted"
	PostingStatusPaused  = "paused"
	PostingStatusClosed  = "closed"
	PostingStatusExpired = "expired"
)

// JobPosting is the tenant-owned published resource applicants submit against.
type JobPosting struct {
	TenantID      string         `json:"tenantId"`
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Visibility    string         `json:"visibility"`
	Status        string         `json:"status"`
	CapacityLimit *int           `json:"capacityLimit,omitempty"`
	Metrics       PostingMetrics `json:"metrics"`
	OwnerID       string         `json:"ownerId"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

// PostingMetrics are advisory counters on a posting. ApplicationCount may
// transiently under-count under concurrent submissions; the authoritative
// count is a query over applications.
type PostingMetrics struct {
	ViewCount        int     `json:"viewCount"`
	ApplicationCount int     `json:"applicationCount"`
	ConversionRate   float64 `json:"conversionRate"`
}

// IsPublic reports whether the posting accepts unauthenticated traffic.
func (p *JobPosting) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

// IsAccepting reports whether the posting is in a submission-accepting state.
func (p *JobPosting) IsAccepting() bool {
	return p.Status == PostingStatusPosted
}
