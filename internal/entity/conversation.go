package entity

import (
	"time"

	"github.com/google/uuid"
)

// VoiceConversation records one interaction between a lead and the voice assistant.
// Conversations are append-only; the scoring engine never mutates them.
type VoiceConversation struct {
	ID              uuid.UUID `json:"id"`
	LeadID          uuid.UUID `json:"lead_id"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	Sentiment       *string   `json:"sentiment,omitempty"`
	IntentDetected  *string   `json:"intent_detected,omitempty"`
	Outcome         *string   `json:"outcome,omitempty"`
	Transcript      *string   `json:"transcript,omitempty"`
	Summary         *string   `json:"summary,omitempty"`
	CallBooked      bool      `json:"call_booked"`
	CreatedAt       time.Time `json:"created_at"`
}
