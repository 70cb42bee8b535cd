package server

import (
	"context"
	"log/slog"
	"task-lab/api/taskv1"
	"task-lab/domain"
	"task-lab/errors"
	"task-lab/runtime"
	"task-lab/services"
	"task-lab/sink"
)

type TaskServer struct {
	taskv1.UnimplementedTaskServiceServer
	taskService          services.ITaskService
	lifecycle            *runtime.Lifecycle
	connectionBufferSize int
	log                  *slog.Logger
}

func NewTaskServer(log *slog.Logger, taskService services.ITaskService,
	lifecycle *runtime.Lifecycle, connectionBufferSize int) *TaskServer {
	return &TaskServer{
		taskService:          taskService,
		lifecycle:            lifecycle,
		connectionBufferSize: connectionBufferSize,
		log:                  log,
	}
}

func (s *TaskServer) CreateTask(ctx context.Context, in *taskv1.CreateTaskRequest) (*taskv1.Task, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.taskService.CreateTask(services.CreateTaskCommand{
		OwnerID:     identity.UserID,
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toPbTask(task), nil
}

func (s *TaskServer) GetTask(ctx context.Context, in *taskv1.GetTaskRequest) (*taskv1.Task, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.taskService.GetTask(identity.UserID, in.Id)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toPbTask(task), nil
}

func (s *TaskServer) UpdateTask(ctx context.Context, in *taskv1.UpdateTaskRequest) (*taskv1.Task, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.taskService.UpdateTask(services.UpdateTaskCommand{
		OwnerID:     identity.UserID,
		TaskID:      in.Id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toPbTask(task), nil
}

func (s *TaskServer) CompleteTask(ctx context.Context, in *taskv1.CompleteTaskRequest) (*taskv1.Task, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.taskService.CompleteTask(identity.UserID, in.Id)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toPbTask(task), nil
}

func (s *TaskServer) DeleteTask(ctx context.Context, in *taskv1.DeleteTaskRequest) (*taskv1.DeleteTaskResponse, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err = s.taskService.DeleteTask(identity.UserID, in.Id); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &taskv1.DeleteTaskResponse{Success: true}, nil
}

func (s *TaskServer) ListTasks(ctx context.Context, in *taskv1.ListTasksRequest) (*taskv1.ListTasksResponse, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.taskService.ListTasks(services.ListTasksCommand{
		OwnerID:   identity.UserID,
		Page:      in.Page,
		Limit:     in.Limit,
		Completed: in.Completed,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &taskv1.ListTasksResponse{
		Tasks: toPbTasks(list.Tasks),
		Total: list.Total,
		Page:  list.Page,
		Limit: list.Limit,
	}, nil
}

func (s *TaskServer) SearchTasks(ctx context.Context, in *taskv1.SearchTasksRequest) (*taskv1.SearchTasksResponse, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskService.SearchTasks(ctx, services.SearchTasksCommand{
		OwnerID: identity.UserID,
		Query:   in.Query,
		Limit:   in.Limit,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &taskv1.SearchTasksResponse{Tasks: toPbTasks(tasks)}, nil
}

// StreamTasks replays the caller's tasks matching the filter, then pushes
// every later change until the client goes away.
// The session is registered before the replay: live events wait in the outbox
// and are pumped right after it.
func (s *TaskServer) StreamTasks(in *taskv1.StreamTasksRequest, stream taskv1.TaskService_StreamTasksServer) error {
	ctx := stream.Context()
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	conn := sink.NewGrpcSink(s.log, s.connectionBufferSize)
	id, snapshot, err := s.taskService.OpenTaskStream(identity.UserID, &domain.TaskFilter{Completed: in.Completed}, conn)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	guard := s.lifecycle.Track(ctx, conn, func() { s.taskService.CloseStream(id) })
	defer guard.Release()

	write := func(payload domain.Outbound) error {
		task, ok := payload.(domain.Task)
		if !ok {
			s.log.Warn("Unexpected payload on task stream", "session_id", id)
			return nil
		}
		return stream.Send(toPbTask(task))
	}
	if err = s.taskService.Replay(ctx, snapshot, write); err != nil {
		return errors.MapToGRPCError(err)
	}
	return s.pump(ctx, conn, write, id)
}

func (s *TaskServer) StreamNotifications(_ *taskv1.StreamNotificationsRequest, stream taskv1.TaskService_StreamNotificationsServer) error {
	ctx := stream.Context()
	identity, err := requireIdentity(ctx)
	if err != nil {
		return err
	}

	conn := sink.NewGrpcSink(s.log, s.connectionBufferSize)
	id := s.taskService.OpenNotificationStream(identity.UserID, conn)
	guard := s.lifecycle.Track(ctx, conn, func() { s.taskService.CloseStream(id) })
	defer guard.Release()

	return s.pump(ctx, conn, func(payload domain.Outbound) error {
		notification, ok := payload.(domain.Notification)
		if !ok {
			s.log.Warn("Unexpected payload on notification stream", "session_id", id)
			return nil
		}
		return stream.Send(toPbNotification(notification))
	}, id)
}

// pump drains the connection until the client leaves. A connection dropped by
// the server (write failure, full outbox) ends the RPC as unavailable.
func (s *TaskServer) pump(ctx context.Context, conn *sink.GrpcSink, write func(domain.Outbound) error, id domain.SessionID) error {
	if err := conn.Pump(ctx, write); err != nil {
		s.log.Debug("Stream write failed", "session_id", id, "error", err)
		return errors.MapToGRPCError(err)
	}
	if ctx.Err() != nil {
		s.log.Debug("Client left the stream", "session_id", id)
		return nil
	}
	return errors.MapToGRPCError(errors.ErrConnectionClosed)
}
