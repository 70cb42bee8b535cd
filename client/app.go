package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"task-lab/api/taskv1"

	"github.com/gookit/color"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// app holds what every command shares: configuration, output and a lazily
// dialed connection.
type app struct {
	config Config
	out    io.Writer

	once sync.Once
	conn *grpc.ClientConn
	err  error
}

func newApp(config Config) *app {
	return &app{config: config, out: os.Stdout}
}

func (a *app) dial() (*grpc.ClientConn, error) {
	a.once.Do(func() {
		a.conn, a.err = grpc.NewClient(a.config.ServerAddr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			taskv1.WithJSONCodec(),
			grpc.WithUnaryInterceptor(a.unaryAuth),
			grpc.WithStreamInterceptor(a.streamAuth),
		)
		if a.err != nil {
			a.err = fmt.Errorf("could not connect to server at %s: %w", a.config.ServerAddr, a.err)
		}
	})
	return a.conn, a.err
}

func (a *app) Close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
}

func (a *app) withToken(ctx context.Context) context.Context {
	if a.config.Token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+a.config.Token)
}

func (a *app) unaryAuth(ctx context.Context, method string, req, reply any,
	cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	return invoker(a.withToken(ctx), method, req, reply, cc, opts...)
}

func (a *app) streamAuth(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn,
	method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return streamer(a.withToken(ctx), desc, cc, method, opts...)
}

// unaryContext bounds a single request by the configured timeout.
func (a *app) unaryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, a.config.Timeout)
}

func (a *app) authClient() (taskv1.AuthServiceClient, error) {
	conn, err := a.dial()
	if err != nil {
		return nil, err
	}
	return taskv1.NewAuthServiceClient(conn), nil
}

func (a *app) taskClient() (taskv1.TaskServiceClient, error) {
	conn, err := a.dial()
	if err != nil {
		return nil, err
	}
	return taskv1.NewTaskServiceClient(conn), nil
}

func (a *app) chatClient() (taskv1.ChatServiceClient, error) {
	conn, err := a.dial()
	if err != nil {
		return nil, err
	}
	return taskv1.NewChatServiceClient(conn), nil
}

func (a *app) paint(style color.Style, text string) string {
	if !a.config.Colours {
		return text
	}
	return style.Render(text)
}
