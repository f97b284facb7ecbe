package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brightreel/video-crm/api/internal/entity"
)

type stubLeadRows struct {
	called bool
}

func (s *stubLeadRows) Close()                                       {}
func (s *stubLeadRows) Err() error                                   { return nil }
func (s *stubLeadRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (s *stubLeadRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (s *stubLeadRows) Next() bool {
	if s.called {
		return false
	}
	s.called = true
	return true
}

func (s *stubLeadRows) Scan(dest ...any) error {
	if !s.called {
		return errors.New("scan called before next")
	}
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	fullName := "Jordan Ames"
	email := "jordan@example.com"
	website := "https://example.com"
	budget := "$497 - $997"
	created := time.Now()
	scoredAt := created.Add(-time.Hour)
	breakdown := json.RawMessage(`{"total":70}`)

	*dest[0].(*uuid.UUID) = id
	*dest[1].(**string) = &fullName
	*dest[2].(**string) = &email
	*dest[3].(**string) = nil // phone
	*dest[4].(**string) = nil // business_name
	*dest[5].(**string) = nil // business_type
	*dest[6].(**string) = &website
	*dest[7].(**string) = nil // video_goals
	*dest[8].(**string) = nil // current_video_strategy
	*dest[9].(**string) = nil // timeline
	*dest[10].(**string) = &budget
	*dest[11].(**string) = nil // budget_allocated
	*dest[12].(**string) = nil // package_interest
	*dest[13].(**string) = nil // source
	*dest[14].(*entity.LeadStatus) = entity.StatusQualified
	*dest[15].(*int) = 70
	*dest[16].(*string) = "B"
	*dest[17].(*json.RawMessage) = breakdown
	*dest[18].(**time.Time) = &scoredAt
	*dest[19].(*bool) = true
	*dest[20].(**time.Time) = &scoredAt
	*dest[21].(*time.Time) = created
	*dest[22].(*time.Time) = created
	return nil
}

func (s *stubLeadRows) Values() ([]any, error) { return nil, nil }
func (s *stubLeadRows) RawValues() [][]byte    { return nil }
func (s *stubLeadRows) Conn() *pgx.Conn        { return nil }

type stubLeadPool struct {
	query    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRow func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *stubLeadPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

func (s *stubLeadPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.query != nil {
		return s.query(ctx, sql, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubLeadPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRow != nil {
		return s.queryRow(ctx, sql, args...)
	}
	return errRow{err: errors.New("queryRow not implemented")}
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error { return r.err }

func TestPGXLeadsRepository_CreateValidation(t *testing.T) {
	repo := &PGXLeadsRepository{}
	if err := repo.Create(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil lead")
	}
}

func TestPGXLeadsRepository_InsertConversationValidation(t *testing.T) {
	repo := &PGXLeadsRepository{}
	if err := repo.InsertConversation(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil conversation")
	}
}

func TestPGXLeadsRepository_GetByIDNotFound(t *testing.T) {
	repo := &PGXLeadsRepository{pool: &stubLeadPool{
		queryRow: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return errRow{err: pgx.ErrNoRows}
		},
	}}

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestQueryLeads(t *testing.T) {
	repo := &PGXLeadsRepository{pool: &stubLeadPool{
		query: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &stubLeadRows{}, nil
		},
	}}

	leads, err := repo.queryLeads(context.Background(), "SELECT ...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}

	lead := leads[0]
	if lead.FullName == nil || *lead.FullName != "Jordan Ames" {
		t.Fatalf("unexpected full name: %+v", lead.FullName)
	}
	if lead.Phone != nil {
		t.Fatalf("expected nil phone, got %v", lead.Phone)
	}
	if lead.Status != "QUALIFIED" || lead.Score != 70 || lead.Grade != "B" {
		t.Fatalf("unexpected score fields: %s %d %s", lead.Status, lead.Score, lead.Grade)
	}
	if !lead.IsQualified || lead.QualifiedAt == nil || lead.LastScoredAt == nil {
		t.Fatalf("unexpected qualification fields: %+v", lead)
	}
	if string(lead.ScoreBreakdown) != `{"total":70}` {
		t.Fatalf("unexpected breakdown: %s", lead.ScoreBreakdown)
	}
}
