package services

import (
	"fmt"
	"task-lab/auth"
	"task-lab/contract"
	"task-lab/domain"
	"task-lab/errors"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(email, password string) (Token, error)
}

type ITokenIssuer interface {
	GenerateToken(identity domain.Identity) (string, error)
}

type AuthService struct {
	userRepository contract.IUserRepository
	issuer         ITokenIssuer
}

// Token is a signed session token along with the user it was issued for.
type Token struct {
	Value  string
	UserID string
}

func NewAuthService(repo contract.IUserRepository, issuer ITokenIssuer) *AuthService {
	return &AuthService{userRepository: repo, issuer: issuer}
}

func (s *AuthService) Register(email, password string) (Token, error) {
	valReq := auth.RegisterRequest{
		Email:    email,
		Password: password,
	}

	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return Token{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Token{}, fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(email, hashedPassword)
	if err != nil {
		return Token{}, err
	}

	return s.issue(domain.Identity{UserID: userID, Name: email, Roles: []string{"user"}})
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		// Same error whatever the cause, no user enumeration.
		return Token{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Token{}, errors.ErrInvalidCredentials
	}

	return s.issue(domain.Identity{UserID: user.ID, Name: user.Email, Roles: user.Roles})
}

func (s *AuthService) issue(identity domain.Identity) (Token, error) {
	value, err := s.issuer.GenerateToken(identity)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return Token{Value: value, UserID: identity.UserID}, nil
}
