package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightreel/video-crm/api/internal/auth"
	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
)

// ErrInvalidCredentials is returned for any login failure the caller should
// not be able to tell apart: unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

const bearerTokenType = "Bearer"

// AuthService signs back-office accounts up and in. Registration always
// creates agents; promoting an account is an admin action on UsersService.
type AuthService struct {
	users     repository.UsersRepository
	tokens    *auth.TokenManager
	validator *ContactValidator
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, tokens *auth.TokenManager, validator *ContactValidator) *AuthService {
	if validator == nil {
		validator = NewContactValidator("")
	}
	return &AuthService{users: users, tokens: tokens, validator: validator}
}

// Register creates an agent account and signs it in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email, err := normalizeAccountEmail(s.validator, req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{Email: email, PasswordHash: string(hashed), Role: entity.RoleAgent}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.signIn(user)
}

// Login validates credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email, err := normalizeAccountEmail(s.validator, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(user)
}

func (s *AuthService) signIn(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   bearerTokenType,
		User:        toUserResponse(user),
	}, nil
}
