// Package e2e drives a running server over the network.
// Set E2E_SERVER_ADDR to enable it.
package e2e

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"task-lab/api/taskv1"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	stepTimeout = 30 * time.Second
	password    = "E2e-Passw0rd!"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("E2E_SERVER_ADDR is not set")
	}
}

// GrpcConn opens a connection that logs every unary call, with its JSON
// bodies when E2E_DEBUG_JSON is set.
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, err := grpc.NewClient(s.Config.ServerAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		taskv1.WithJSONCodec(),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, asJSON(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, asJSON(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.ServerAddr)
	return conn
}

func asJSON(v any) string {
	data, err := taskv1.Codec{}.Marshal(v)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// NewAccount registers a fresh account and returns its token.
func (s *BaseGrpcSuite) NewAccount(name string) *taskv1.AuthResponse {
	var resp *taskv1.AuthResponse
	s.WithAuth("Register "+name, func(ctx context.Context, client taskv1.AuthServiceClient) {
		var err error
		resp, err = client.Register(ctx, &taskv1.RegisterRequest{
			Email:    fmt.Sprintf("%s-%s@e2e.test", name, uuid.NewString()[:8]),
			Password: password,
		})
		s.Require().NoError(err)
	})
	return resp
}

// WithAuth provides an AuthService client within a contextual test step
func (s *BaseGrpcSuite) WithAuth(name string, fn func(ctx context.Context, client taskv1.AuthServiceClient)) {
	conn := s.GrpcConn(s.T(), name)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()

	fn(ctx, taskv1.NewAuthServiceClient(conn))
}

// WithTasks provides a TaskService client whose calls carry the token
func (s *BaseGrpcSuite) WithTasks(name, token string, fn func(ctx context.Context, client taskv1.TaskServiceClient)) {
	conn := s.GrpcConn(s.T(), name)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), stepTimeout)
	defer cancel()

	fn(metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token), taskv1.NewTaskServiceClient(conn))
}
