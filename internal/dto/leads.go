package dto

import "github.com/brightreel/video-crm/api/internal/entity"

// CaptureLeadRequest is the public lead-capture payload from the marketing site.
type CaptureLeadRequest struct {
	FullName             string `json:"full_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	BusinessName         string `json:"business_name"`
	BusinessType         string `json:"business_type"`
	Website              string `json:"website"`
	VideoGoals           string `json:"video_goals"`
	CurrentVideoStrategy string `json:"current_video_strategy"`
	Timeline             string `json:"timeline"`
	BudgetRange          string `json:"budget_range"`
	BudgetAllocated      string `json:"budget_allocated"`
	PackageInterest      string `json:"package_interest"`
	Source               string `json:"source"`
}

// LeadListFilter contains query parameters for lead listing endpoints.
type LeadListFilter struct {
	Status    string
	Qualified *bool
	Source    string
	Limit     int
	Offset    int
}

// LeadListResponse pairs the page of leads with pagination and status stats.
type LeadListResponse struct {
	Leads      []entity.Lead `json:"leads"`
	Pagination Pagination    `json:"pagination"`
	Stats      LeadListStats `json:"stats"`
}

// Pagination describes the window returned by a list call.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// LeadListStats summarises the lead base by status.
type LeadListStats struct {
	ByStatus  map[string]int `json:"byStatus"`
	Qualified int            `json:"qualified"`
	Total     int            `json:"total"`
}

// UpdateLeadStatusRequest is the explicit status-change payload. This is the
// only path that may move a lead out of the qualified state; the scoring
// engine never does.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// ConversationWebhookRequest is the payload posted by the voice worker after
// each assistant interaction.
type ConversationWebhookRequest struct {
	LeadID          string  `json:"lead_id"`
	DurationSeconds *int    `json:"duration_seconds"`
	Sentiment       *string `json:"sentiment"`
	IntentDetected  *string `json:"intent_detected"`
	Outcome         *string `json:"outcome"`
	Transcript      *string `json:"transcript"`
	Summary         *string `json:"summary"`
	CallBooked      bool    `json:"call_booked"`
}
