package auth

import (
	"context"
	"task-lab/api/taskv1"
	"task-lab/contract"
	"task-lab/domain"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require a token at all.
var publicMethods = map[string]struct{}{
	taskv1.AuthService_Login_FullMethodName:    {},
	taskv1.AuthService_Register_FullMethodName: {},
}

// Streams allowed to carry their credential in the first message instead of metadata.
var deferredMethods = map[string]struct{}{
	taskv1.ChatService_Chat_FullMethodName: {},
}

type contextKey string

const identityKey contextKey = "identity"

const authorizationHeader = "authorization"

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity injected by the interceptors.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// Interceptor validates the bearer token of incoming calls and injects the identity.
type Interceptor struct {
	verifier contract.IIdentityVerifier
}

func NewInterceptor(verifier contract.IIdentityVerifier) *Interceptor {
	return &Interceptor{verifier: verifier}
}

func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := publicMethods[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		identity, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(WithIdentity(ctx, identity), req)
	}
}

func (i *Interceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if _, deferred := deferredMethods[info.FullMethod]; deferred && credential(ss.Context()) == "" {
			return handler(srv, ss)
		}
		identity, err := i.authenticate(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &identityStream{ServerStream: ss, ctx: WithIdentity(ss.Context(), identity)})
	}
}

func (i *Interceptor) authenticate(ctx context.Context) (domain.Identity, error) {
	token := credential(ctx)
	if token == "" {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	identity, err := i.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return identity, nil
}

func credential(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(authorizationHeader)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

type identityStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *identityStream) Context() context.Context { return s.ctx }
