package server

import (
	stderrors "errors"
	"io"
	"log/slog"
	"task-lab/api/taskv1"
	"task-lab/auth"
	"task-lab/domain"
	"task-lab/errors"
	"task-lab/runtime"
	"task-lab/services"
	"task-lab/sink"
)

type ChatServer struct {
	taskv1.UnimplementedChatServiceServer
	chatService          *services.ChatService
	lifecycle            *runtime.Lifecycle
	connectionBufferSize int
	log                  *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService *services.ChatService,
	lifecycle *runtime.Lifecycle, connectionBufferSize int) *ChatServer {
	return &ChatServer{
		chatService:          chatService,
		lifecycle:            lifecycle,
		connectionBufferSize: connectionBufferSize,
		log:                  log,
	}
}

// Chat runs one bidirectional chat stream.
// Inbound messages drive the session state machine on this goroutine while a
// second goroutine pumps the outbox; the handler only returns once the pump
// has stopped, so the stream is never written after the RPC ends.
func (s *ChatServer) Chat(stream taskv1.ChatService_ChatServer) error {
	ctx := stream.Context()
	conn := sink.NewGrpcSink(s.log, s.connectionBufferSize)

	var identity *domain.Identity
	if id, ok := auth.IdentityFromContext(ctx); ok {
		identity = &id
	}
	session := s.chatService.Open(conn, identity)
	guard := s.lifecycle.Track(ctx, conn, session.Close)

	pumped := make(chan error, 1)
	go func() {
		pumped <- conn.Pump(ctx, func(payload domain.Outbound) error {
			msg, ok := payload.(domain.ChatMessage)
			if !ok {
				return nil
			}
			return stream.Send(toPbChatMessage(msg))
		})
	}()
	defer func() {
		guard.Release()
		if err := <-pumped; err != nil {
			s.log.Debug("Chat write failed", "connection_id", conn.ID(), "error", err)
		}
	}()

	inbound := make(chan *taskv1.ChatMessage)
	received := make(chan error, 1)
	go func() {
		for {
			in, err := stream.Recv()
			if err != nil {
				received <- err
				return
			}
			select {
			case inbound <- in:
			case <-conn.Done():
				return
			}
		}
	}()

	for {
		select {
		case in := <-inbound:
			err := session.Handle(services.InboundChat{Room: in.Room, Text: in.Text, Token: in.Token})
			if err != nil {
				return errors.MapToGRPCError(err)
			}
		case err := <-received:
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		case <-conn.Done():
			if ctx.Err() != nil {
				return nil
			}
			return errors.MapToGRPCError(errors.ErrConnectionClosed)
		}
	}
}
