package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-lab/api/taskv1"
	"task-lab/auth"
	"task-lab/infrastructure/grpc/server"
	"task-lab/internal"
	"task-lab/moderation"
	"task-lab/repositories"
	"task-lab/runtime"
	"task-lab/runtime/workers"
	"task-lab/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves until a termination signal arrives and
// reports failures as an exit code instead of calling os.Exit itself.
func run() (int, error) {
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open badger at %s: %w", config.BadgerFilepath, err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge index at %s: %w", config.BlugeFilepath, err)
	}
	defer func() {
		logger.Info("Closing Bluge writer...")
		_ = blugeWriter.Close()
	}()

	taskRepository := repositories.NewTaskRepository(db, logger)
	userRepository := repositories.NewUserRepository(db)
	taskIndex := repositories.NewTaskIndex(blugeWriter, logger)

	// Runtime
	sessions := runtime.NewSessionRegistry(logger)
	rooms := runtime.NewRoomRegistry(logger)
	dispatcher := runtime.NewDispatcher(logger, sessions, rooms)
	lifecycle := runtime.NewLifecycle(logger)

	// Identity
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	verifier := auth.NewJWTVerifier(issuer)
	interceptor := auth.NewInterceptor(verifier)

	// Moderation
	wordList, err := moderation.LoadEmbedded()
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(wordList.Words, charReplacement, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to build moderator: %w", err)
	}
	logger.Debug("Moderation ready", "languages", wordList.Languages, "words", len(wordList.Words))

	// Services
	taskService := services.NewTaskService(taskRepository, taskIndex, sessions, dispatcher, logger,
		services.PageConfig{DefaultSize: config.DefaultPageSize, MaxSize: config.MaxPageSize},
		config.StreamReplayDelay)
	chatService := services.NewChatService(rooms, dispatcher, verifier, moderator, logger, config.MaxMessageLength)
	authService := services.NewAuthService(userRepository, issuer)

	// Background workers
	reporter := workers.NewReporterWorker(logger, sessions, rooms, config.ReportInterval)
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(reporter)
	if config.DebugPort > 0 {
		supervisor.Add(internal.NewDebugServer(logger, db, reporter.Stats, config.DebugPort))
	}
	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supervisorDone)
	}()

	// gRPC
	address := config.Address()
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	taskv1.RegisterAuthServiceServer(s, server.NewAuthServer(authService))
	taskv1.RegisterTaskServiceServer(s, server.NewTaskServer(logger, taskService, lifecycle, config.ConnectionBufferSize))
	taskv1.RegisterChatServiceServer(s, server.NewChatServer(logger, chatService, lifecycle, config.ConnectionBufferSize))

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		supervisor.Stop()
		<-supervisorDone
		return exitRuntime, err
	}

	// gRPC goes first: stream handlers still use storage until they return.
	logger.Info("Shutting down gracefully...")
	stopGRPC(s, logger)
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

// stopGRPC waits for in-flight RPCs for at most the grace period, then
// force-closes the live streams still open.
func stopGRPC(s *grpc.Server, logger *slog.Logger) {
	const gracePeriod = 5 * time.Second
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(gracePeriod):
		logger.Warn("Grace period elapsed, closing remaining streams")
		s.Stop()
	}
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}
