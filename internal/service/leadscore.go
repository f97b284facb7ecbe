package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

// LeadScoreService bridges the pure score calculator to durable storage. It
// is the sole writer of score, grade, breakdown and qualification fields.
type LeadScoreService struct {
	repo       repository.LeadsRepository
	cfg        scoring.Configuration
	staleAfter time.Duration
	now        func() time.Time
}

// NewLeadScoreService constructs the scoring controller. staleAfter bounds
// how old a stored score may be before GetScore flags it for recomputation.
func NewLeadScoreService(repo repository.LeadsRepository, cfg scoring.Configuration, staleAfter time.Duration) *LeadScoreService {
	if staleAfter <= 0 {
		staleAfter = 7 * 24 * time.Hour
	}
	return &LeadScoreService{
		repo:       repo,
		cfg:        cfg,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Config exposes the immutable scoring configuration in use.
func (s *LeadScoreService) Config() scoring.Configuration {
	return s.cfg
}

// GetScore returns the live breakdown next to the last-persisted one without
// mutating storage. needsUpdate is true when the stored score diverges from
// the live total, has never been computed, or has gone stale.
func (s *LeadScoreService) GetScore(ctx context.Context, leadID uuid.UUID) (*dto.GetLeadScoreResponse, error) {
	lead, conversations, err := s.repo.GetWithConversations(ctx, leadID)
	if err != nil {
		return nil, err
	}

	live := scoring.Calculate(lead, conversations, s.cfg)

	needsUpdate := lead.LastScoredAt == nil ||
		lead.Score != live.Total ||
		s.now().Sub(*lead.LastScoredAt) > s.staleAfter

	return &dto.GetLeadScoreResponse{
		LeadID:               lead.ID.String(),
		FullName:             lead.FullName,
		Email:                lead.Email,
		Status:               string(lead.Status),
		CurrentScore:         lead.Score,
		CurrentGrade:         scoring.GradeFor(lead.Score),
		LastScoredAt:         lead.LastScoredAt,
		IsQualified:          lead.IsQualified,
		QualifiedAt:          lead.QualifiedAt,
		LiveScoreBreakdown:   live,
		StoredScoreBreakdown: lead.ScoreBreakdown,
		NeedsUpdate:          needsUpdate,
	}, nil
}

// UpdateScore recomputes and persists a lead's score. Qualification is
// monotonic: once a lead is qualified, this path never un-qualifies it, and
// qualifiedAt is stamped only on the first transition. A fresh qualification
// also promotes a NEW lead to QUALIFIED.
func (s *LeadScoreService) UpdateScore(ctx context.Context, leadID uuid.UUID) (*dto.UpdateLeadScoreResponse, error) {
	lead, conversations, err := s.repo.GetWithConversations(ctx, leadID)
	if err != nil {
		return nil, err
	}

	live := scoring.Calculate(lead, conversations, s.cfg)

	autoQualified := live.ShouldAutoQualify && !lead.IsQualified

	qualifiedAt := lead.QualifiedAt
	if autoQualified {
		now := s.now()
		qualifiedAt = &now
	}

	status := lead.Status
	if live.ShouldAutoQualify && status == entity.StatusNew {
		status = entity.StatusQualified
	}

	breakdown, err := json.Marshal(live)
	if err != nil {
		return nil, fmt.Errorf("marshal score breakdown: %w", err)
	}

	updated, err := s.repo.ApplyScore(ctx, repository.ScoreUpdate{
		LeadID:         lead.ID,
		Score:          live.Total,
		Grade:          string(live.Grade),
		ScoreBreakdown: breakdown,
		LastScoredAt:   s.now(),
		IsQualified:    lead.IsQualified || live.ShouldAutoQualify,
		QualifiedAt:    qualifiedAt,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summaries = append(summaries, dto.ConversationSummary{
			ID:              conv.ID.String(),
			CreatedAt:       conv.CreatedAt,
			DurationSeconds: conv.DurationSeconds,
			Sentiment:       conv.Sentiment,
			IntentDetected:  conv.IntentDetected,
			Outcome:         conv.Outcome,
			CallBooked:      conv.CallBooked,
		})
	}

	return &dto.UpdateLeadScoreResponse{
		Success: true,
		Message: "lead score updated",
		Lead: dto.ScoredLead{
			ID:             updated.ID.String(),
			FullName:       updated.FullName,
			Email:          updated.Email,
			Status:         string(updated.Status),
			Score:          updated.Score,
			Grade:          live.Grade,
			ScoreBreakdown: live,
			LastScoredAt:   updated.LastScoredAt,
			IsQualified:    updated.IsQualified,
			QualifiedAt:    updated.QualifiedAt,
		},
		Conversations: summaries,
		StatusChanged: lead.Status != updated.Status,
		AutoQualified: autoQualified,
	}, nil
}
