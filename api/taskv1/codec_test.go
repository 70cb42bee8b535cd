package taskv1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	req := require.New(t)
	codec := encoding.GetCodec(CodecName)
	req.NotNil(codec)
	req.Equal(CodecName, codec.Name())
}

func TestCodec_Partial_Update_Keeps_Absent_Fields_Nil(t *testing.T) {
	req := require.New(t)
	title := "new title"

	data, err := Codec{}.Marshal(&UpdateTaskRequest{Id: "t1", Title: &title})
	req.NoError(err)
	req.JSONEq(`{"id":"t1","title":"new title"}`, string(data))

	var decoded UpdateTaskRequest
	req.NoError(Codec{}.Unmarshal(data, &decoded))
	req.Equal("new title", *decoded.Title)
	req.Nil(decoded.Description)
	req.Nil(decoded.Completed)
}

func TestCodec_Explicit_False_Survives(t *testing.T) {
	req := require.New(t)
	pending := false

	data, err := Codec{}.Marshal(&ListTasksRequest{Completed: &pending})
	req.NoError(err)

	var decoded ListTasksRequest
	req.NoError(Codec{}.Unmarshal(data, &decoded))
	req.NotNil(decoded.Completed)
	req.False(*decoded.Completed)
}

func TestCodec_Empty_Payload(t *testing.T) {
	req := require.New(t)
	var decoded StreamNotificationsRequest
	req.NoError(Codec{}.Unmarshal(nil, &decoded))

	var task Task
	req.Error(Codec{}.Unmarshal([]byte("{not json"), &task))
}

func TestCodec_Times_Are_RFC3339(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	data, err := Codec{}.Marshal(&Task{Id: "t1", CreatedAt: at, UpdatedAt: at})
	req.NoError(err)
	req.Contains(string(data), `"created_at":"2026-03-04T05:06:07Z"`)
}
