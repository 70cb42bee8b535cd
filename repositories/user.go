package repositories

import (
	stderrors "errors"
	"fmt"
	"task-lab/domain"
	"task-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type UserRepository struct {
	db  *badger.DB
	now func() time.Time
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// User is the stored form of an account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

func userKey(email string) []byte {
	return []byte("user:" + email)
}

// CreateUser persists an already hashed password under the email key.
// It returns the newly generated user ID.
func (u *UserRepository) CreateUser(email, hashedPassword string) (string, error) {
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    u.now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := userKey(email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, marshalUser(user))
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrUserAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("%w: create user: %v", errors.ErrStore, err)
	}
	return user.ID, nil
}

// GetUserByEmail returns ErrInvalidCredentials for unknown emails so callers
// cannot tell a wrong email from a wrong password.
func (u *UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			user, err = unmarshalUser(val)
			return err
		})
	})
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.User{}, errors.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("%w: get user: %v", errors.ErrStore, err)
	}
	return domain.User{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
	}, nil
}
