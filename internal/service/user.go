package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

// UserService handles account business logic.
type UserService struct {
	users   UserStore
	logger  *slog.Logger
	metrics metrics.Recorder

	// dummyHash is verified against when the username is unknown so that
	// both failure paths cost one argon2 derivation.
	dummyHash string
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, logger *slog.Logger, recorder metrics.Recorder) (*UserService, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := auth.HashPassword("wanderlust-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}

	return &UserService{users: users, logger: logger, metrics: recorder, dummyHash: dummy}, nil
}

// Signup registers a new user.
func (s *UserService) Signup(ctx context.Context, in *form.SignupInput) (*model.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncSignup()
	s.logger.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return user, nil
}

// Authenticate checks a username and password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		_, _ = auth.VerifyPassword(password, s.dummyHash)
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash unreadable",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLoginSucceeded()
	return user, nil
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
