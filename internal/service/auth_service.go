package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"spendtrack/internal/auth"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

var (
	// ErrInvalidCredentials is returned on login failure. A missing account,
	// an inactive account, and a wrong password all produce this same error
	// so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when the registration email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when the registration username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidRefreshToken is returned when a refresh token is rejected for
	// any reason. The wrapped cause carries the reason for diagnostics.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthService handles registration, login and token refresh.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, expiresIn int64, err error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

// Register creates a new user with a hashed password. The email and username
// pre-checks are best effort; the unique indexes are the authority, so a
// duplicate-key error from a concurrent registration still maps to the
// matching conflict error.
func (s *authService) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	if err := s.checkAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Active:       true,
		Verified:     false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; probe which field collided.
			if _, probeErr := s.users.FindByEmail(ctx, email); probeErr == nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *authService) checkAvailable(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

// Login authenticates a user and returns an access/refresh token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if !user.Active || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.ID, user.Email, auth.KindAccess)
	if err != nil {
		return nil, nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.Issue(user.ID, user.Email, auth.KindRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return user, &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Refresh validates a refresh token and issues a new access token for its
// subject. The subject must still exist and be active.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	claims, err := s.tokens.Validate(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, fmt.Errorf("%w: subject no longer exists", ErrInvalidRefreshToken)
		}
		return "", 0, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return "", 0, fmt.Errorf("%w: subject is inactive", ErrInvalidRefreshToken)
	}

	accessToken, err := s.tokens.Issue(user.ID, user.Email, auth.KindAccess)
	if err != nil {
		return "", 0, fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, int64(s.tokens.AccessTTL().Seconds()), nil
}
