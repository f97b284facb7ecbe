package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
)

type mockUsersRepository struct {
	create     func(ctx context.Context, user *entity.User) error
	getByEmail func(ctx context.Context, email string) (*entity.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	list       func(ctx context.Context) ([]entity.User, error)
	update     func(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUsersRepository) Create(ctx context.Context, user *entity.User) error {
	if m.create != nil {
		return m.create(ctx, user)
	}
	return errors.New("create not implemented")
}

func (m *mockUsersRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmail != nil {
		return m.getByEmail(ctx, email)
	}
	return nil, errors.New("getByEmail not implemented")
}

func (m *mockUsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return nil, errors.New("getByID not implemented")
}

func (m *mockUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockUsersRepository) Update(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
	if m.update != nil {
		return m.update(ctx, id, patch)
	}
	return nil, errors.New("update not implemented")
}

func (m *mockUsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("delete not implemented")
}

func TestUsersService_Create(t *testing.T) {
	var persisted *entity.User
	repo := &mockUsersRepository{
		create: func(ctx context.Context, user *entity.User) error {
			persisted = user
			user.ID = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
			user.CreatedAt = time.Now().UTC()
			return nil
		},
	}

	svc := NewUsersService(repo, nil)
	resp, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "  New.Agent@BrightReel.COM ",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Email != "new.agent@brightreel.com" {
		t.Fatalf("expected normalized email, got %s", resp.Email)
	}
	if resp.Role != entity.RoleAgent {
		t.Fatalf("expected default agent role, got %s", resp.Role)
	}
	if persisted.PasswordHash == "long-enough" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(persisted.PasswordHash), []byte("long-enough")); err != nil {
		t.Fatalf("stored hash must match the password: %v", err)
	}
}

func TestUsersService_Create_Validation(t *testing.T) {
	svc := NewUsersService(&mockUsersRepository{}, nil)

	tests := map[string]dto.CreateUserRequest{
		"missing email":  {Password: "long-enough"},
		"invalid email":  {Email: "not-an-email", Password: "long-enough"},
		"short password": {Email: "a@brightreel.com", Password: "short"},
		"unknown role":   {Email: "a@brightreel.com", Password: "long-enough", Role: "root"},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			var validation AccountValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected AccountValidationError, got %v", err)
			}
		})
	}
}

func TestUsersService_Create_EmailTaken(t *testing.T) {
	repo := &mockUsersRepository{
		create: func(ctx context.Context, user *entity.User) error {
			return repository.ErrEmailTaken
		},
	}
	svc := NewUsersService(repo, nil)
	_, err := svc.Create(context.Background(), dto.CreateUserRequest{Email: "dup@brightreel.com", Password: "long-enough"})
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUsersService_Update(t *testing.T) {
	var gotPatch repository.UserPatch
	repo := &mockUsersRepository{
		update: func(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
			gotPatch = patch
			return &entity.User{ID: id, Email: "promoted@brightreel.com", Role: entity.RoleAdmin}, nil
		},
	}

	svc := NewUsersService(repo, nil)
	resp, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateUserRequest{
		Email:    strptr(" Promoted@BrightReel.com "),
		Role:     strptr(" ADMIN "),
		Password: strptr("fresh-secret"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Role != entity.RoleAdmin {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotPatch.Email == nil || *gotPatch.Email != "promoted@brightreel.com" {
		t.Fatalf("expected normalized email in patch, got %v", gotPatch.Email)
	}
	if gotPatch.Role == nil || *gotPatch.Role != entity.RoleAdmin {
		t.Fatalf("expected normalized role in patch, got %v", gotPatch.Role)
	}
	if gotPatch.PasswordHash == nil {
		t.Fatal("expected password hash in patch")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*gotPatch.PasswordHash), []byte("fresh-secret")); err != nil {
		t.Fatalf("patched hash must match the password: %v", err)
	}
}

func TestUsersService_Update_Validation(t *testing.T) {
	svc := NewUsersService(&mockUsersRepository{}, nil)

	if _, err := svc.Update(context.Background(), "not-a-uuid", dto.UpdateUserRequest{}); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}

	var validation AccountValidationError
	if _, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateUserRequest{Email: strptr(" ")}); !errors.As(err, &validation) {
		t.Fatalf("expected AccountValidationError for blank email, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateUserRequest{Password: strptr("tiny")}); !errors.As(err, &validation) {
		t.Fatalf("expected AccountValidationError for short password, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateUserRequest{Role: strptr("root")}); !errors.As(err, &validation) {
		t.Fatalf("expected AccountValidationError for unknown role, got %v", err)
	}
}

func TestUsersService_Update_NotFound(t *testing.T) {
	repo := &mockUsersRepository{
		update: func(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*entity.User, error) {
			return nil, repository.ErrUserNotFound
		},
	}
	svc := NewUsersService(repo, nil)
	if _, err := svc.Update(context.Background(), uuid.NewString(), dto.UpdateUserRequest{}); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUsersService_Delete(t *testing.T) {
	repo := &mockUsersRepository{
		delete: func(ctx context.Context, id uuid.UUID) error { return nil },
	}
	svc := NewUsersService(repo, nil)

	if err := svc.Delete(context.Background(), uuid.NewString()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "bad-uuid"); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestUsersService_List(t *testing.T) {
	created := time.Now().UTC()
	repo := &mockUsersRepository{
		list: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{ID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), Email: "admin@brightreel.com", Role: entity.RoleAdmin, CreatedAt: created},
				{ID: uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), Email: "agent@brightreel.com", Role: entity.RoleAgent, CreatedAt: created},
			}, nil
		},
	}

	svc := NewUsersService(repo, nil)
	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Email != "admin@brightreel.com" || users[1].Role != entity.RoleAgent {
		t.Fatalf("unexpected response: %+v", users)
	}
	if !users[0].CreatedAt.Equal(created) {
		t.Fatalf("expected created timestamp carried through, got %v", users[0].CreatedAt)
	}
}
