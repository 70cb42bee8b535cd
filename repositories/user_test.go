package repositories

import (
	"task-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_And_Get(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	id, err := repo.CreateUser("alice@example.com", "hashed")
	req.NoError(err)
	req.NotEmpty(id)

	user, err := repo.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("alice@example.com", user.Email)
	req.Equal("hashed", user.PasswordHash)
	req.Equal([]string{"user"}, user.Roles)
}

func TestUserRepository_Create_Twice(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.CreateUser("alice@example.com", "hashed")
	req.NoError(err)

	_, err = repo.CreateUser("alice@example.com", "other")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_Unknown_Email(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
