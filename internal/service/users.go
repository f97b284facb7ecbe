package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightreel/video-crm/api/internal/dto"
	"github.com/brightreel/video-crm/api/internal/entity"
	"github.com/brightreel/video-crm/api/internal/repository"
)

// ErrInvalidUserID indicates the supplied account identifier is not a UUID.
var ErrInvalidUserID = errors.New("invalid user id")

const minPasswordLength = 8

// AccountValidationError indicates a back-office account payload failed
// validation.
type AccountValidationError struct {
	Message string
}

// Error implements the error interface.
func (e AccountValidationError) Error() string {
	return e.Message
}

// UsersService manages back-office accounts: the agents and admins who work
// leads. Account emails go through the same normalization as lead contacts.
type UsersService struct {
	repo      repository.UsersRepository
	validator *ContactValidator
}

// NewUsersService creates a new instance of UsersService.
func NewUsersService(repo repository.UsersRepository, validator *ContactValidator) *UsersService {
	if validator == nil {
		validator = NewContactValidator("")
	}
	return &UsersService{repo: repo, validator: validator}
}

// List returns all accounts.
func (s *UsersService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, nil
}

// Create provisions an account. An empty role defaults to agent.
func (s *UsersService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	email, err := normalizeAccountEmail(s.validator, req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{Email: email, PasswordHash: string(hashed), Role: role}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Update patches account fields. Absent fields are left untouched.
func (s *UsersService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	userID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidUserID
	}

	var patch repository.UserPatch

	if req.Email != nil {
		email, err := normalizeAccountEmail(s.validator, *req.Email)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash := string(hashed)
		patch.PasswordHash = &hash
	}
	if req.Role != nil {
		role, err := normalizeRole(*req.Role)
		if err != nil {
			return nil, err
		}
		patch.Role = &role
	}

	user, err := s.repo.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Delete removes an account.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrInvalidUserID
	}
	return s.repo.Delete(ctx, userID)
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func normalizeAccountEmail(validator *ContactValidator, raw string) (string, error) {
	email, err := validator.NormalizeEmail(raw)
	if err != nil {
		return "", AccountValidationError{Message: "invalid email address"}
	}
	if email == "" {
		return "", AccountValidationError{Message: "email is required"}
	}
	return email, nil
}

func validatePassword(raw string) error {
	if len(strings.TrimSpace(raw)) < minPasswordLength {
		return AccountValidationError{Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	return nil
}

func normalizeRole(raw string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		return entity.RoleAgent, nil
	}
	if !entity.ValidUserRole(role) {
		return "", AccountValidationError{Message: "unknown role: " + raw}
	}
	return role, nil
}
