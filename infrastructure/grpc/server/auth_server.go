package server

import (
	"context"
	"task-lab/api/taskv1"
	"task-lab/errors"
	"task-lab/services"
)

type AuthServer struct {
	taskv1.UnimplementedAuthServiceServer
	authService services.IAuthService
}

func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register validates the credentials, stores the account and issues a token.
func (s *AuthServer) Register(_ context.Context, in *taskv1.RegisterRequest) (*taskv1.AuthResponse, error) {
	token, err := s.authService.Register(in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &taskv1.AuthResponse{Token: token.Value, UserId: token.UserID}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(_ context.Context, in *taskv1.LoginRequest) (*taskv1.AuthResponse, error) {
	token, err := s.authService.Login(in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &taskv1.AuthResponse{Token: token.Value, UserId: token.UserID}, nil
}
