package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

// ErrInvalidLeadID indicates the supplied lead identifier is not a UUID.
var ErrInvalidLeadID = errors.New("invalid lead id")

// LeadsService exposes capture and read/write operations for leads.
type LeadsService struct {
	repo      repository.LeadsRepository
	validator *ContactValidator
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, validator *ContactValidator) *LeadsService {
	if validator == nil {
		validator = NewContactValidator("")
	}
	return &LeadsService{repo: repo, validator: validator}
}

// Capture validates, normalizes and stores a new lead from the marketing
// site. Leads start unscored in the NEW stage.
func (s *LeadsService) Capture(ctx context.Context, req dto.CaptureLeadRequest) (*entity.Lead, error) {
	email, err := s.validator.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	phone := s.validator.NormalizePhone(req.Phone)
	website := s.validator.NormalizeWebsite(req.Website)

	if email == "" && phone == "" {
		return nil, LeadValidationError{Message: "email or phone is required"}
	}

	lead := &entity.Lead{
		FullName:             optional(req.FullName),
		Email:                optional(email),
		Phone:                optional(phone),
		BusinessName:         optional(req.BusinessName),
		BusinessType:         optional(req.BusinessType),
		Website:              optional(website),
		VideoGoals:           optional(req.VideoGoals),
		CurrentVideoStrategy: optional(req.CurrentVideoStrategy),
		Timeline:             optional(req.Timeline),
		BudgetRange:          optional(req.BudgetRange),
		BudgetAllocated:      optional(req.BudgetAllocated),
		PackageInterest:      optional(req.PackageInterest),
		Source:               optional(req.Source),
		Status:               entity.StatusNew,
		Score:                0,
		Grade:                string(scoring.GradeD),
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns leads respecting pagination defaults, together with
// pagination metadata and per-status statistics.
func (s *LeadsService) List(ctx context.Context, filter dto.LeadListFilter) (*dto.LeadListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus, qualified, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.LeadListResponse{
		Leads: leads,
		Pagination: dto.Pagination{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+len(leads) < total,
		},
		Stats: dto.LeadListStats{
			ByStatus:  byStatus,
			Qualified: qualified,
			Total:     total,
		},
	}, nil
}

// Get fetches a single lead with its conversation history.
func (s *LeadsService) Get(ctx context.Context, id uuid.UUID) (*entity.Lead, []entity.VoiceConversation, error) {
	return s.repo.GetWithConversations(ctx, id)
}

// UpdateStatus applies an explicit lifecycle change. This is the external
// action path: it may move a lead anywhere, including out of qualification
// flows, and never touches score fields.
func (s *LeadsService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Lead, error) {
	normalized := entity.LeadStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !entity.ValidLeadStatus(normalized) {
		return nil, LeadValidationError{Message: "unknown lead status: " + status}
	}
	return s.repo.UpdateStatus(ctx, id, normalized)
}

// HighValue returns open leads at or above the score threshold.
func (s *LeadsService) HighValue(ctx context.Context, minScore int) ([]entity.Lead, error) {
	if minScore <= 0 {
		minScore = 60
	}
	return s.repo.ListHighValue(ctx, minScore)
}

// RecordConversation appends a voice conversation for a lead.
func (s *LeadsService) RecordConversation(ctx context.Context, req dto.ConversationWebhookRequest) (*entity.VoiceConversation, error) {
	leadID, err := uuid.Parse(strings.TrimSpace(req.LeadID))
	if err != nil {
		return nil, ErrInvalidLeadID
	}

	conversation := &entity.VoiceConversation{
		LeadID:          leadID,
		DurationSeconds: req.DurationSeconds,
		Sentiment:       req.Sentiment,
		IntentDetected:  req.IntentDetected,
		Outcome:         req.Outcome,
		Transcript:      req.Transcript,
		Summary:         req.Summary,
		CallBooked:      req.CallBooked,
	}
	if err := s.repo.InsertConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
