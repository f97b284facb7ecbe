package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LeadStatus enumerates the lifecycle stages of a lead.
type LeadStatus string

const (
	StatusNew          LeadStatus = "NEW"
	StatusContacted    LeadStatus = "CONTACTED"
	StatusQualified    LeadStatus = "QUALIFIED"
	StatusProposalSent LeadStatus = "PROPOSAL_SENT"
	StatusWon          LeadStatus = "WON"
	StatusLost         LeadStatus = "LOST"
)

// ValidLeadStatus reports whether the given value is a known lifecycle stage.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposalSent, StatusWon, StatusLost:
		return true
	}
	return false
}

// Closed reports whether the status is terminal for scoring purposes.
// Closed leads are excluded from batch recomputation and statistics.
func (s LeadStatus) Closed() bool {
	return s == StatusWon || s == StatusLost
}

// Lead represents a prospective customer captured through forms, chat or manual entry.
type Lead struct {
	ID                   uuid.UUID       `json:"id"`
	FullName             *string         `json:"full_name,omitempty"`
	Email                *string         `json:"email,omitempty"`
	Phone                *string         `json:"phone,omitempty"`
	BusinessName         *string         `json:"business_name,omitempty"`
	BusinessType         *string         `json:"business_type,omitempty"`
	Website              *string         `json:"website,omitempty"`
	VideoGoals           *string         `json:"video_goals,omitempty"`
	CurrentVideoStrategy *string         `json:"current_video_strategy,omitempty"`
	Timeline             *string         `json:"timeline,omitempty"`
	BudgetRange          *string         `json:"budget_range,omitempty"`
	BudgetAllocated      *string         `json:"budget_allocated,omitempty"`
	PackageInterest      *string         `json:"package_interest,omitempty"`
	Source               *string         `json:"source,omitempty"`
	Status               LeadStatus      `json:"status"`
	Score                int             `json:"score"`
	Grade                string          `json:"grade"`
	ScoreBreakdown       json.RawMessage `json:"score_breakdown,omitempty"`
	LastScoredAt         *time.Time      `json:"last_scored_at,omitempty"`
	IsQualified          bool            `json:"is_qualified"`
	QualifiedAt          *time.Time      `json:"qualified_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
