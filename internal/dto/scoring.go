package dto

import (
	"encoding/json"
	"time"

	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

// GetLeadScoreResponse returns the live and last-persisted breakdowns for a
// lead, without mutating storage.
type GetLeadScoreResponse struct {
	LeadID               string            `json:"leadId"`
	FullName             *string           `json:"fullName"`
	Email                *string           `json:"email"`
	Status               string            `json:"status"`
	CurrentScore         int               `json:"currentScore"`
	CurrentGrade         scoring.Grade     `json:"currentGrade"`
	LastScoredAt         *time.Time        `json:"lastScoredAt"`
	IsQualified          bool              `json:"isQualified"`
	QualifiedAt          *time.Time        `json:"qualifiedAt"`
	LiveScoreBreakdown   scoring.Breakdown `json:"liveScoreBreakdown"`
	StoredScoreBreakdown json.RawMessage   `json:"storedScoreBreakdown"`
	NeedsUpdate          bool              `json:"needsUpdate"`
}

// ScoredLead is the lead projection embedded in an update-score response.
type ScoredLead struct {
	ID             string            `json:"id"`
	FullName       *string           `json:"fullName"`
	Email          *string           `json:"email"`
	Status         string            `json:"status"`
	Score          int               `json:"score"`
	Grade          scoring.Grade     `json:"grade"`
	ScoreBreakdown scoring.Breakdown `json:"scoreBreakdown"`
	LastScoredAt   *time.Time        `json:"lastScoredAt"`
	IsQualified    bool              `json:"isQualified"`
	QualifiedAt    *time.Time        `json:"qualifiedAt"`
}

// ConversationSummary is the reduced conversation view returned alongside a
// score update.
type ConversationSummary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	DurationSeconds *int      `json:"durationSeconds"`
	Sentiment       *string   `json:"sentiment"`
	IntentDetected  *string   `json:"intentDetected"`
	Outcome         *string   `json:"outcome"`
	CallBooked      bool      `json:"callBooked"`
}

// UpdateLeadScoreResponse reports the persisted score and what changed.
type UpdateLeadScoreResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	Lead          ScoredLead            `json:"lead"`
	Conversations []ConversationSummary `json:"conversations"`
	StatusChanged bool                  `json:"statusChanged"`
	AutoQualified bool                  `json:"autoQualified"`
}

// LeadScoringStats aggregates the scored lead base.
type LeadScoringStats struct {
	TotalLeads         int                   `json:"totalLeads"`
	AverageScore       float64               `json:"averageScore"`
	GradeDistribution  map[scoring.Grade]int `json:"gradeDistribution"`
	AutoQualifiedCount int                   `json:"autoQualifiedCount"`
	NeedsReview        int                   `json:"needsReview"`
}

// StaleLead is the summary of a lead whose stored score is stale.
type StaleLead struct {
	ID           string     `json:"id"`
	FullName     *string    `json:"fullName"`
	Email        *string    `json:"email"`
	Status       string     `json:"status"`
	Score        int        `json:"score"`
	LastScoredAt *time.Time `json:"lastScoredAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// BatchScoreInfoResponse pairs scoring statistics with the concrete stale set.
type BatchScoreInfoResponse struct {
	Stats              LeadScoringStats `json:"stats"`
	LeadsNeedingUpdate StaleLeadList    `json:"leadsNeedingUpdate"`
}

// StaleLeadList carries stale leads plus their count.
type StaleLeadList struct {
	Count int         `json:"count"`
	Leads []StaleLead `json:"leads"`
}

// BatchUpdateScoreRequest selects the leads a batch run should target.
// Explicit IDs take precedence over the stale-by-age query.
type BatchUpdateScoreRequest struct {
	LeadIDs   []string `json:"leadIds"`
	OnlyStale bool     `json:"onlyStale"`
	DaysOld   *int     `json:"daysOld"`
}

// BatchLeadError captures one lead's failure inside a batch run.
type BatchLeadError struct {
	LeadID string `json:"leadId"`
	Error  string `json:"error"`
}

// BatchUpdateResults summarises a batch run. Processed counts attempts,
// updated counts successful writes; errors never abort the batch.
type BatchUpdateResults struct {
	Processed int              `json:"processed"`
	Updated   int              `json:"updated"`
	Errors    []BatchLeadError `json:"errors"`
}

// BatchUpdateScoreResponse is the batch endpoint's reply.
type BatchUpdateScoreResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Results BatchUpdateResults `json:"results"`
}
