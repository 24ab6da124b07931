package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spendtrack/internal/auth"
	"spendtrack/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestTokenService() *auth.TokenService {
	return auth.NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		username      string
		password      string
		setupMock     func(m *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "a@x.com",
			username: "alice",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already registered",
			email:    "a@x.com",
			username: "alice2",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{Email: "a@x.com"}, nil)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:     "username already taken",
			email:    "b@x.com",
			username: "alice",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "b@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: ErrUsernameTaken,
		},
		{
			name:     "lost race on email unique index",
			email:    "a@x.com",
			username: "alice",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				// Both pre-checks pass, but the store rejects the insert.
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound).Once()
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{Email: "a@x.com"}, nil).Once()
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:     "lost race on username unique index",
			email:    "a@x.com",
			username: "alice",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound).Once()
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, newTestTokenService())
			user, err := service.Register(context.Background(), tt.email, tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.username, user.Username)
				assert.True(t, user.Active)
				assert.False(t, user.Verified)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.VerifyPassword(tt.password, user.PasswordHash))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	passwordHash, err := auth.HashPassword("Secret123!")
	require.NoError(t, err)

	existing := &model.User{
		ID:           42,
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: passwordHash,
		Active:       true,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(m *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
			},
			expectedError: nil,
		},
		{
			name:     "user not found",
			email:    "nobody@x.com",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "WrongPass1!",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			email:    "a@x.com",
			password: "Secret123!",
			setupMock: func(m *MockUserRepository) {
				inactive := *existing
				inactive.Active = false
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&inactive, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokenService()
			service := NewAuthService(mockRepo, tokens)

			user, pair, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Not-found, wrong-password, and inactive must yield the exact
				// same error value.
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				require.NotNil(t, pair)
				assert.Equal(t, existing.Email, user.Email)
				assert.Equal(t, int64(1800), pair.ExpiresIn)

				accessClaims, err := tokens.Validate(pair.AccessToken, auth.KindAccess)
				require.NoError(t, err)
				userID, err := accessClaims.UserID()
				require.NoError(t, err)
				assert.Equal(t, existing.ID, userID)

				_, err = tokens.Validate(pair.RefreshToken, auth.KindRefresh)
				require.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	existing := &model.User{ID: 42, Email: "a@x.com", Username: "alice", Active: true}

	makeRefreshToken := func(tokens *auth.TokenService) string {
		token, err := tokens.Issue(existing.ID, existing.Email, auth.KindRefresh)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name          string
		token         func(tokens *auth.TokenService) string
		setupMock     func(m *MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful refresh",
			token: makeRefreshToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(42)).Return(existing, nil)
			},
			expectedError: nil,
		},
		{
			name: "access token rejected for refresh use",
			token: func(tokens *auth.TokenService) string {
				token, err := tokens.Issue(existing.ID, existing.Email, auth.KindAccess)
				require.NoError(t, err)
				return token
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name: "garbage token",
			token: func(tokens *auth.TokenService) string {
				return "not-a-token"
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "subject no longer exists",
			token: makeRefreshToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "subject is inactive",
			token: makeRefreshToken,
			setupMock: func(m *MockUserRepository) {
				inactive := *existing
				inactive.Active = false
				m.On("FindByID", mock.Anything, uint(42)).Return(&inactive, nil)
			},
			expectedError: ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := newTestTokenService()
			service := NewAuthService(mockRepo, tokens)

			accessToken, expiresIn, err := service.Refresh(context.Background(), tt.token(tokens))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1800), expiresIn)

				claims, err := tokens.Validate(accessToken, auth.KindAccess)
				require.NoError(t, err)
				userID, err := claims.UserID()
				require.NoError(t, err)
				assert.Equal(t, existing.ID, userID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
