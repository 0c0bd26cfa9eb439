package service

import (
	"context"
	"errors"
	"strings"

	"eventhub/internal/auth"
	"eventhub/internal/domain"
	"eventhub/internal/repository"
)

var (
	// ErrMissingFields indicates required request fields are absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUserAlreadyExists is returned when registering over an existing username or email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown identifier and wrong password,
	// so a caller cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenIssuer signs a bearer token for an authenticated user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService describes account registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.User, error)
	Login(ctx context.Context, username, email, password string) (string, *domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return nil, ErrMissingFields
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Username takes precedence for the duplicate lookup; the unique indexes
	// on both fields are the final arbiter either way.
	if _, err := s.lookup(ctx, username, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *authService) Login(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// Absent identifiers must not degenerate into a store query.
	if (username == "" && email == "") || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.lookup(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", nil, err
	}
	return token, sanitizeUser(user), nil
}

func (s *authService) lookup(ctx context.Context, username, email string) (*domain.User, error) {
	if username != "" {
		return s.users.GetByUsername(ctx, username)
	}
	return s.users.GetByEmail(ctx, email)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
