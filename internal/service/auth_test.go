package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightreel/video-crm/api/internal/auth"
	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
)

func newAuthService(repo repository.UsersRepository) *AuthService {
	return NewAuthService(repo, auth.NewTokenManager("test-secret", 0), nil)
}

func TestAuthService_Register(t *testing.T) {
	var persisted *entity.User
	repo := &mockUsersRepository{
		create: func(ctx context.Context, user *entity.User) error {
			persisted = user
			user.ID = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
			return nil
		},
	}

	svc := newAuthService(repo)
	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    " New.Agent@BrightReel.com ",
		Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if persisted.Role != entity.RoleAgent {
		t.Fatalf("self-registration must create agents, got %s", persisted.Role)
	}
	if persisted.Email != "new.agent@brightreel.com" {
		t.Fatalf("expected normalized email, got %s", persisted.Email)
	}
	if resp.TokenType != "Bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if resp.User.Email != "new.agent@brightreel.com" || resp.User.Role != entity.RoleAgent {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}

	claims, err := auth.NewTokenManager("test-secret", 0).Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token must verify: %v", err)
	}
	if claims.Subject != persisted.ID.String() || claims.Role != entity.RoleAgent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(&mockUsersRepository{})

	var validation AccountValidationError
	if _, err := svc.Register(context.Background(), dto.RegisterRequest{Password: "long-enough"}); !errors.As(err, &validation) {
		t.Fatalf("expected AccountValidationError for missing email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "a@brightreel.com", Password: "short"}); !errors.As(err, &validation) {
		t.Fatalf("expected AccountValidationError for short password, got %v", err)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := &mockUsersRepository{
		create: func(ctx context.Context, user *entity.User) error {
			return repository.ErrEmailTaken
		},
	}
	svc := newAuthService(repo)
	if _, err := svc.Register(context.Background(), dto.RegisterRequest{Email: "dup@brightreel.com", Password: "long-enough"}); !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}
	account := &entity.User{
		ID:           uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
		Email:        "admin@brightreel.com",
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
	}

	tests := map[string]struct {
		email    string
		password string
		repo     repository.UsersRepository
		wantErr  error
	}{
		"empty credentials": {
			repo:    &mockUsersRepository{},
			wantErr: ErrInvalidCredentials,
		},
		"unknown email": {
			email:    "nobody@brightreel.com",
			password: "whatever",
			repo: &mockUsersRepository{
				getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
					return nil, repository.ErrUserNotFound
				},
			},
			wantErr: ErrInvalidCredentials,
		},
		"wrong password": {
			email:    "admin@brightreel.com",
			password: "wrong",
			repo: &mockUsersRepository{
				getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
					return account, nil
				},
			},
			wantErr: ErrInvalidCredentials,
		},
		"success": {
			email:    " Admin@BrightReel.com ",
			password: "super-secret",
			repo: &mockUsersRepository{
				getByEmail: func(ctx context.Context, email string) (*entity.User, error) {
					if email != "admin@brightreel.com" {
						t.Fatalf("expected normalized email lookup, got %s", email)
					}
					return account, nil
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := newAuthService(tt.repo)
			resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if resp != nil {
					t.Fatalf("expected no payload on error, got %+v", resp)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			claims, err := auth.NewTokenManager("test-secret", 0).Verify(resp.AccessToken)
			if err != nil {
				t.Fatalf("issued token must verify: %v", err)
			}
			if claims.Role != entity.RoleAdmin || claims.Email != "admin@brightreel.com" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
		})
	}
}
