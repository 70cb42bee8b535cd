package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// ErrUnauthenticated covers missing, malformed or expired credentials.
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	// ErrInvalidArgument marks a malformed request field.
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	// ErrWrite is returned by a connection that can no longer deliver.
	ErrWrite = fmt.Errorf("write failed")
	// ErrConnectionClosed is a write on a connection already torn down.
	ErrConnectionClosed = fmt.Errorf("%w: connection closed", ErrWrite)
	// ErrBackpressure is a write on a connection whose outbox is full.
	ErrBackpressure = fmt.Errorf("%w: outbox full", ErrWrite)
	ErrTaskNotFound = fmt.Errorf("task not found")
	ErrStore        = fmt.Errorf("store failure")
	ErrNotJoined    = fmt.Errorf("%w: join a room first", ErrInvalidArgument)

	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrEmptyWords = fmt.Errorf("no words have been found")
)

// MapToGRPCError converts domain errors into gRPC status errors.
// Errors already carrying a status are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, ErrUnauthenticated), stderrors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case stderrors.Is(err, ErrInvalidArgument), stderrors.Is(err, ErrInvalidPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case stderrors.Is(err, ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case stderrors.Is(err, ErrWrite):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
