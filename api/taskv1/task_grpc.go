package taskv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	TaskService_CreateTask_FullMethodName          = "/tasklab.v1.TaskService/CreateTask"
	TaskService_GetTask_FullMethodName             = "/tasklab.v1.TaskService/GetTask"
	TaskService_UpdateTask_FullMethodName          = "/tasklab.v1.TaskService/UpdateTask"
	TaskService_CompleteTask_FullMethodName        = "/tasklab.v1.TaskService/CompleteTask"
	TaskService_DeleteTask_FullMethodName          = "/tasklab.v1.TaskService/DeleteTask"
	TaskService_ListTasks_FullMethodName           = "/tasklab.v1.TaskService/ListTasks"
	TaskService_SearchTasks_FullMethodName         = "/tasklab.v1.TaskService/SearchTasks"
	TaskService_StreamTasks_FullMethodName         = "/tasklab.v1.TaskService/StreamTasks"
	TaskService_StreamNotifications_FullMethodName = "/tasklab.v1.TaskService/StreamNotifications"
)

type TaskServiceClient interface {
	CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*Task, error)
	GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*Task, error)
	UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Task, error)
	CompleteTask(ctx context.Context, in *CompleteTaskRequest, opts ...grpc.CallOption) (*Task, error)
	DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	SearchTasks(ctx context.Context, in *SearchTasksRequest, opts ...grpc.CallOption) (*SearchTasksResponse, error)
	StreamTasks(ctx context.Context, in *StreamTasksRequest, opts ...grpc.CallOption) (TaskService_StreamTasksClient, error)
	StreamNotifications(ctx context.Context, in *StreamNotificationsRequest, opts ...grpc.CallOption) (TaskService_StreamNotificationsClient, error)
}

type taskServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskServiceClient(cc grpc.ClientConnInterface) TaskServiceClient {
	return &taskServiceClient{cc}
}

func (c *taskServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, TaskService_CreateTask_FullMethodName, in, opts...)
}

func (c *taskServiceClient) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, TaskService_GetTask_FullMethodName, in, opts...)
}

func (c *taskServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, TaskService_UpdateTask_FullMethodName, in, opts...)
}

func (c *taskServiceClient) CompleteTask(ctx context.Context, in *CompleteTaskRequest, opts ...grpc.CallOption) (*Task, error) {
	return invoke[Task](ctx, c.cc, TaskService_CompleteTask_FullMethodName, in, opts...)
}

func (c *taskServiceClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error) {
	return invoke[DeleteTaskResponse](ctx, c.cc, TaskService_DeleteTask_FullMethodName, in, opts...)
}

func (c *taskServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, TaskService_ListTasks_FullMethodName, in, opts...)
}

func (c *taskServiceClient) SearchTasks(ctx context.Context, in *SearchTasksRequest, opts ...grpc.CallOption) (*SearchTasksResponse, error) {
	return invoke[SearchTasksResponse](ctx, c.cc, TaskService_SearchTasks_FullMethodName, in, opts...)
}

func (c *taskServiceClient) StreamTasks(ctx context.Context, in *StreamTasksRequest, opts ...grpc.CallOption) (TaskService_StreamTasksClient, error) {
	stream, err := c.cc.NewStream(ctx, &TaskService_ServiceDesc.Streams[0], TaskService_StreamTasks_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[StreamTasksRequest, Task]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type TaskService_StreamTasksClient = grpc.ServerStreamingClient[Task]

func (c *taskServiceClient) StreamNotifications(ctx context.Context, in *StreamNotificationsRequest, opts ...grpc.CallOption) (TaskService_StreamNotificationsClient, error) {
	stream, err := c.cc.NewStream(ctx, &TaskService_ServiceDesc.Streams[1], TaskService_StreamNotifications_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[StreamNotificationsRequest, Notification]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type TaskService_StreamNotificationsClient = grpc.ServerStreamingClient[Notification]

type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*Task, error)
	GetTask(context.Context, *GetTaskRequest) (*Task, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error)
	CompleteTask(context.Context, *CompleteTaskRequest) (*Task, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	SearchTasks(context.Context, *SearchTasksRequest) (*SearchTasksResponse, error)
	StreamTasks(*StreamTasksRequest, TaskService_StreamTasksServer) error
	StreamNotifications(*StreamNotificationsRequest, TaskService_StreamNotificationsServer) error
}

type TaskService_StreamTasksServer = grpc.ServerStreamingServer[Task]

type TaskService_StreamNotificationsServer = grpc.ServerStreamingServer[Notification]

// UnimplementedTaskServiceServer can be embedded to have forward compatible implementations.
type UnimplementedTaskServiceServer struct{}

func (UnimplementedTaskServiceServer) CreateTask(context.Context, *CreateTaskRequest) (*Task, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTask not implemented")
}

func (UnimplementedTaskServiceServer) GetTask(context.Context, *GetTaskRequest) (*Task, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTask not implemented")
}

func (UnimplementedTaskServiceServer) UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTask not implemented")
}

func (UnimplementedTaskServiceServer) CompleteTask(context.Context, *CompleteTaskRequest) (*Task, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteTask not implemented")
}

func (UnimplementedTaskServiceServer) DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTask not implemented")
}

func (UnimplementedTaskServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTasks not implemented")
}

func (UnimplementedTaskServiceServer) SearchTasks(context.Context, *SearchTasksRequest) (*SearchTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchTasks not implemented")
}

func (UnimplementedTaskServiceServer) StreamTasks(*StreamTasksRequest, TaskService_StreamTasksServer) error {
	return status.Error(codes.Unimplemented, "method StreamTasks not implemented")
}

func (UnimplementedTaskServiceServer) StreamNotifications(*StreamNotificationsRequest, TaskService_StreamNotificationsServer) error {
	return status.Error(codes.Unimplemented, "method StreamNotifications not implemented")
}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}

func _TaskService_StreamTasks_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamTasksRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TaskServiceServer).StreamTasks(m, &grpc.GenericServerStream[StreamTasksRequest, Task]{ServerStream: stream})
}

func _TaskService_StreamNotifications_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamNotificationsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TaskServiceServer).StreamNotifications(m, &grpc.GenericServerStream[StreamNotificationsRequest, Notification]{ServerStream: stream})
}

var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tasklab.v1.TaskService",
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTask", Handler: unaryHandler(TaskService_CreateTask_FullMethodName, TaskServiceServer.CreateTask)},
		{MethodName: "GetTask", Handler: unaryHandler(TaskService_GetTask_FullMethodName, TaskServiceServer.GetTask)},
		{MethodName: "UpdateTask", Handler: unaryHandler(TaskService_UpdateTask_FullMethodName, TaskServiceServer.UpdateTask)},
		{MethodName: "CompleteTask", Handler: unaryHandler(TaskService_CompleteTask_FullMethodName, TaskServiceServer.CompleteTask)},
		{MethodName: "DeleteTask", Handler: unaryHandler(TaskService_DeleteTask_FullMethodName, TaskServiceServer.DeleteTask)},
		{MethodName: "ListTasks", Handler: unaryHandler(TaskService_ListTasks_FullMethodName, TaskServiceServer.ListTasks)},
		{MethodName: "SearchTasks", Handler: unaryHandler(TaskService_SearchTasks_FullMethodName, TaskServiceServer.SearchTasks)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamTasks",
			Handler:       _TaskService_StreamTasks_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "StreamNotifications",
			Handler:       _TaskService_StreamNotifications_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "tasklab/v1/task.proto",
}
