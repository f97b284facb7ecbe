package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/repository"
	"github.com/brightreel/video-crm/api/internal/service/scoring"
)

// ErrBatchTargetsRequired indicates a batch update request named no leads:
// neither explicit leadIds nor the onlyStale flag was provided.
var ErrBatchTargetsRequired = errors.New("leadIds or onlyStale is required")

const defaultStaleDays = 7

// BatchScoreService fans UpdateScore out over many leads, isolating per-lead
// failures so one bad record never aborts the batch.
type BatchScoreService struct {
	repo    repository.LeadsRepository
	scores  *LeadScoreService
	workers int
	now     func() time.Time
}

// NewBatchScoreService constructs the batch scheduler. workers bounds the
// fan-out concurrency.
func NewBatchScoreService(repo repository.LeadsRepository, scores *LeadScoreService, workers int) *BatchScoreService {
	if workers <= 0 {
		workers = 4
	}
	return &BatchScoreService{
		repo:    repo,
		scores:  scores,
		workers: workers,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// BatchInfo returns aggregate scoring statistics for the open lead base plus
// the concrete set of leads whose stored score is stale. Read-only.
func (s *BatchScoreService) BatchInfo(ctx context.Context, daysOld int) (*dto.BatchScoreInfoResponse, error) {
	if daysOld <= 0 {
		daysOld = defaultStaleDays
	}
	cutoff := s.now().AddDate(0, 0, -daysOld)

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	stale, err := s.repo.ListStale(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	stats := dto.LeadScoringStats{
		TotalLeads: len(active),
		GradeDistribution: map[scoring.Grade]int{
			scoring.GradeA: 0,
			scoring.GradeB: 0,
			scoring.GradeC: 0,
			scoring.GradeD: 0,
		},
	}

	sum := 0
	for _, lead := range active {
		sum += lead.Score
		stats.GradeDistribution[scoring.GradeFor(lead.Score)]++
		if lead.IsQualified {
			stats.AutoQualifiedCount++
		}
		if lead.LastScoredAt == nil {
			stats.NeedsReview++
		}
	}
	if len(active) > 0 {
		stats.AverageScore = math.Round(float64(sum)/float64(len(active))*10) / 10
	}

	staleLeads := make([]dto.StaleLead, 0, len(stale))
	for _, lead := range stale {
		staleLeads = append(staleLeads, dto.StaleLead{
			ID:           lead.ID.String(),
			FullName:     lead.FullName,
			Email:        lead.Email,
			Status:       string(lead.Status),
			Score:        lead.Score,
			LastScoredAt: lead.LastScoredAt,
			CreatedAt:    lead.CreatedAt,
		})
	}

	return &dto.BatchScoreInfoResponse{
		Stats: stats,
		LeadsNeedingUpdate: dto.StaleLeadList{
			Count: len(staleLeads),
			Leads: staleLeads,
		},
	}, nil
}

// BatchUpdate resolves the target lead set and runs UpdateScore across it
// with bounded concurrency. Explicit IDs take precedence over the
// stale-by-age query. The batch always completes; per-lead failures are
// recorded in the results rather than propagated.
func (s *BatchScoreService) BatchUpdate(ctx context.Context, req dto.BatchUpdateScoreRequest) (*dto.BatchUpdateResults, error) {
	results := &dto.BatchUpdateResults{Errors: []dto.BatchLeadError{}}

	var targets []uuid.UUID

	switch {
	case len(req.LeadIDs) > 0:
		for _, raw := range req.LeadIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				results.Processed++
				results.Errors = append(results.Errors, dto.BatchLeadError{LeadID: raw, Error: "invalid lead id"})
				continue
			}
			targets = append(targets, id)
		}
	case req.OnlyStale:
		daysOld := defaultStaleDays
		if req.DaysOld != nil && *req.DaysOld > 0 {
			daysOld = *req.DaysOld
		}
		stale, err := s.repo.ListStale(ctx, s.now().AddDate(0, 0, -daysOld))
		if err != nil {
			return nil, err
		}
		for _, lead := range stale {
			targets = append(targets, lead.ID)
		}
	default:
		return nil, ErrBatchTargetsRequired
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, id := range targets {
		group.Go(func() error {
			_, err := s.scores.UpdateScore(groupCtx, id)

			mu.Lock()
			defer mu.Unlock()
			results.Processed++
			if err != nil {
				results.Errors = append(results.Errors, dto.BatchLeadError{LeadID: id.String(), Error: err.Error()})
				return nil
			}
			results.Updated++
			return nil
		})
	}

	// Workers never return errors; failures are collected per lead.
	_ = group.Wait()

	return results, nil
}
