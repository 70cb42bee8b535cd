package services

import (
	"task-lab/auth"
	"task-lab/domain"
	"task-lab/errors"
	"task-lab/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	issuer := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	svc := NewAuthService(mockRepo, issuer)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "test@example.com"
		password := "ComplexPass123!"
		expectedUserID := "user-uuid"

		// Expect CreateUser to be called with a hashed password, never the plain one
		mockRepo.EXPECT().
			CreateUser(email, gomock.Not(password)).
			Return(expectedUserID, nil).
			Times(1)

		token, err := svc.Register(email, password)

		req.NoError(err)
		req.Equal(expectedUserID, token.UserID)
		claims, err := issuer.ValidateToken(token.Value)
		req.NoError(err)
		req.Equal(expectedUserID, claims.UserID)
		req.Equal(email, claims.Name)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository must never be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register("test@example.com", "simple")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token.Value)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"

		mockRepo.EXPECT().
			CreateUser(email, gomock.Any()).
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(email, "ComplexPass123!")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	issuer := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	svc := NewAuthService(mockRepo, issuer)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, err := auth.HashPassword(password)
		req.NoError(err)
		storedUser := domain.User{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Roles:        []string{"user"},
		}

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(storedUser, nil).
			Times(1)

		token, err := svc.Login(email, password)

		req.NoError(err)
		claims, err := issuer.ValidateToken(token.Value)
		req.NoError(err)
		req.Equal(storedUser.ID, claims.UserID)
		req.Equal([]string{"user"}, claims.Roles)
	})

	t.Run("should return invalid credentials when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, err := auth.HashPassword("CorrectPassword123!")
		req.NoError(err)

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(domain.User{Email: email, PasswordHash: hashedPassword}, nil).
			Times(1)

		_, err = svc.Login(email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByEmail("unknown@example.com").
			Return(domain.User{}, errors.ErrInvalidCredentials).
			Times(1)

		_, err := svc.Login("unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
