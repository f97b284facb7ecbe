package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
)

// ErrLeadNotFound is returned when no lead matches the lookup criteria.
var ErrLeadNotFound = errors.New("lead not found")

// pgxPool is the subset of pgxpool.Pool the repositories rely on, extracted
// so tests can stub the database.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// ScoreUpdate carries the score-related fields written together in a single
// statement. The scoring service is the sole writer of these fields.
type ScoreUpdate struct {
	LeadID         uuid.UUID
	Score          int
	Grade          string
	ScoreBreakdown json.RawMessage
	LastScoredAt   time.Time
	IsQualified    bool
	QualifiedAt    *time.Time
	Status         entity.LeadStatus
}

// LeadsRepository describes persistence operations for leads and their
// conversations.
type LeadsRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	GetWithConversations(ctx context.Context, id uuid.UUID) (*entity.Lead, []entity.VoiceConversation, error)
	List(ctx context.Context, filter dto.LeadListFilter) ([]entity.Lead, int, error)
	ListActive(ctx context.Context) ([]entity.Lead, error)
	ListStale(ctx context.Context, cutoff time.Time) ([]entity.Lead, error)
	ListHighValue(ctx context.Context, minScore int) ([]entity.Lead, error)
	CountByStatus(ctx context.Context) (map[string]int, int, error)
	ApplyScore(ctx context.Context, update ScoreUpdate) (*entity.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LeadStatus) (*entity.Lead, error)
	InsertConversation(ctx context.Context, conversation *entity.VoiceConversation) error
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed leads repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `
    id, full_name, email, phone, business_name, business_type, website,
    video_goals, current_video_strategy, timeline, budget_range,
    budget_allocated, package_interest, source, status, score, grade,
    score_breakdown, last_scored_at, is_qualified, qualified_at,
    created_at, updated_at`

// Create inserts a new lead row.
func (r *PGXLeadsRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}

	query := `
        INSERT INTO leads (
            full_name, email, phone, business_name, business_type, website,
            video_goals, current_video_strategy, timeline, budget_range,
            budget_allocated, package_interest, source, status, score, grade
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.BusinessName,
		lead.BusinessType,
		lead.Website,
		lead.VideoGoals,
		lead.CurrentVideoStrategy,
		lead.Timeline,
		lead.BudgetRange,
		lead.BudgetAllocated,
		lead.PackageInterest,
		lead.Source,
		lead.Status,
		lead.Score,
		lead.Grade,
	)
	if err := row.Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID fetches a single lead.
func (r *PGXLeadsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLeadRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}
	return lead, nil
}

// GetWithConversations fetches a lead together with its full conversation
// history, oldest first.
func (r *PGXLeadsRepository) GetWithConversations(ctx context.Context, id uuid.UUID) (*entity.Lead, []entity.VoiceConversation, error) {
	lead, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, lead_id, duration_seconds, sentiment, intent_detected,
               outcome, transcript, summary, call_booked, created_at
        FROM voice_conversations
        WHERE lead_id = $1
        ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []entity.VoiceConversation
	for rows.Next() {
		var conv entity.VoiceConversation
		if err := rows.Scan(
			&conv.ID,
			&conv.LeadID,
			&conv.DurationSeconds,
			&conv.Sentiment,
			&conv.IntentDetected,
			&conv.Outcome,
			&conv.Transcript,
			&conv.Summary,
			&conv.CallBooked,
			&conv.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan conversation row: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return lead, conversations, nil
}

// List returns a page of leads plus the total count for the filter.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.LeadListFilter) ([]entity.Lead, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	idx := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.Qualified != nil {
		where = append(where, fmt.Sprintf("is_qualified = $%d", idx))
		args = append(args, *filter.Qualified)
		idx++
	}
	if filter.Source != "" {
		where = append(where, fmt.Sprintf("source = $%d", idx))
		args = append(args, filter.Source)
		idx++
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := fmt.Sprintf(`SELECT%s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, clause, idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	leads, err := r.queryLeads(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// ListActive returns all leads that are not closed, for statistics.
func (r *PGXLeadsRepository) ListActive(ctx context.Context) ([]entity.Lead, error) {
	return r.queryLeads(ctx, `SELECT`+leadColumns+`
        FROM leads
        WHERE status NOT IN ($1, $2)
        ORDER BY created_at DESC`, entity.StatusWon, entity.StatusLost)
}

// ListStale returns open leads never scored or last scored before the cutoff.
func (r *PGXLeadsRepository) ListStale(ctx context.Context, cutoff time.Time) ([]entity.Lead, error) {
	return r.queryLeads(ctx, `SELECT`+leadColumns+`
        FROM leads
        WHERE (last_scored_at IS NULL OR last_scored_at < $1)
          AND status NOT IN ($2, $3)
        ORDER BY created_at DESC`, cutoff, entity.StatusWon, entity.StatusLost)
}

// ListHighValue returns open leads at or above the score threshold, best first.
func (r *PGXLeadsRepository) ListHighValue(ctx context.Context, minScore int) ([]entity.Lead, error) {
	return r.queryLeads(ctx, `SELECT`+leadColumns+`
        FROM leads
        WHERE score >= $1
          AND status NOT IN ($2, $3)
        ORDER BY score DESC`, minScore, entity.StatusWon, entity.StatusLost)
}

// CountByStatus aggregates lead counts per status plus the qualified total.
func (r *PGXLeadsRepository) CountByStatus(ctx context.Context) (map[string]int, int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, fmt.Errorf("scan status count: %w", err)
		}
		byStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate status counts: %w", err)
	}

	var qualified int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE is_qualified`).Scan(&qualified); err != nil {
		return nil, 0, fmt.Errorf("count qualified leads: %w", err)
	}

	return byStatus, qualified, nil
}

// ApplyScore persists the score fields and qualification state in one
// statement, so they are written together or not at all.
func (r *PGXLeadsRepository) ApplyScore(ctx context.Context, update ScoreUpdate) (*entity.Lead, error) {
	breakdown := update.ScoreBreakdown
	if len(breakdown) == 0 {
		breakdown = json.RawMessage("{}")
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE leads SET
            score = $1,
            grade = $2,
            score_breakdown = $3,
            last_scored_at = $4,
            is_qualified = $5,
            qualified_at = $6,
            status = $7,
            updated_at = NOW()
        WHERE id = $8
        RETURNING`+leadColumns,
		update.Score,
		update.Grade,
		breakdown,
		update.LastScoredAt,
		update.IsQualified,
		update.QualifiedAt,
		update.Status,
		update.LeadID,
	)

	lead, err := scanLeadRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("apply lead score: %w", err)
	}
	return lead, nil
}

// UpdateStatus sets the lifecycle stage explicitly. This is the external
// action path; it does not touch score fields.
func (r *PGXLeadsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.LeadStatus) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE leads SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING`+leadColumns, status, id)

	lead, err := scanLeadRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// InsertConversation appends a conversation record for a lead.
func (r *PGXLeadsRepository) InsertConversation(ctx context.Context, conversation *entity.VoiceConversation) error {
	if conversation == nil {
		return fmt.Errorf("conversation payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO voice_conversations (
            lead_id, duration_seconds, sentiment, intent_detected,
            outcome, transcript, summary, call_booked
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`,
		conversation.LeadID,
		conversation.DurationSeconds,
		conversation.Sentiment,
		conversation.IntentDetected,
		conversation.Outcome,
		conversation.Transcript,
		conversation.Summary,
		conversation.CallBooked,
	)
	if err := row.Scan(&conversation.ID, &conversation.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %v", ErrLeadNotFound, pgErr)
		}
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *PGXLeadsRepository) queryLeads(ctx context.Context, query string, args ...any) ([]entity.Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLeadRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

func scanLeadRow(row pgx.Row) (*entity.Lead, error) {
	var lead entity.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Email,
		&lead.Phone,
		&lead.BusinessName,
		&lead.BusinessType,
		&lead.Website,
		&lead.VideoGoals,
		&lead.CurrentVideoStrategy,
		&lead.Timeline,
		&lead.BudgetRange,
		&lead.BudgetAllocated,
		&lead.PackageInterest,
		&lead.Source,
		&lead.Status,
		&lead.Score,
		&lead.Grade,
		&lead.ScoreBreakdown,
		&lead.LastScoredAt,
		&lead.IsQualified,
		&lead.QualifiedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
