package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wbsotracker/wbsotracker/internal/auth"
	"github.com/wbsotracker/wbsotracker/internal/clock"
	"github.com/wbsotracker/wbsotracker/internal/metrics"
	"github.com/wbsotracker/wbsotracker/internal/model"
	"github.com/wbsotracker/wbsotracker/internal/repository"
)

// Account errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

const minPasswordLength = 8

// AccountService handles registration, login, and credential resets.
type AccountService struct {
	users   UserStore
	tokens  *auth.TokenManager
	clock   clock.Clock
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, tokens *auth.TokenManager, clk clock.Clock, recorder metrics.Recorder) *AccountService {
	if clk == nil {
		clk = clock.Real{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:   users,
		tokens:  tokens,
		clock:   clk,
		metrics: recorder,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email                 string
	Password              string
	ProjectName           string
	WBSOApplicationNumber string
	ProjectStartDate      time.Time
	ProjectEndDate        time.Time
	ApprovedHours         float64
	ProjectPhases         []string
}

// Session is the result of a successful registration or login.
type Session struct {
	User        *model.User
	AccessToken string
}

// Register creates an account and logs it in.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	phases := input.ProjectPhases
	if len(phases) == 0 {
		phases = model.DefaultProjectPhases
	}

	now := s.clock.Now()
	user := &model.User{
		ID:                    ulid.Make().String(),
		Email:                 email,
		PasswordHash:          hash,
		ProjectName:           input.ProjectName,
		WBSOApplicationNumber: input.WBSOApplicationNumber,
		ProjectStartDate:      input.ProjectStartDate,
		ProjectEndDate:        input.ProjectEndDate,
		ApprovedHours:         input.ApprovedHours,
		ProjectPhases:         phases,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{User: user, AccessToken: token}, nil
}

// Login verifies credentials and issues an access token.
// Failures are uniform: a missing account and a wrong password both return
// ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &Session{User: user, AccessToken: token}, nil
}

// ChangePassword replaces a user's credential after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, updated string) error {
	if len(updated) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(current, user.PasswordHash)
	if err != nil || !match {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(updated)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}
