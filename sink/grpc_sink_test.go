package sink

import (
	"context"
	"fmt"
	"log/slog"
	"task-lab/domain"
	"task-lab/errors"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func task(id string) domain.Task {
	return domain.Task{ID: id}
}

func TestGrpcSink_Pump_Keeps_Order(t *testing.T) {
	req := require.New(t)
	sink := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 10)
	for i := 0; i < 5; i++ {
		req.NoError(sink.Send(task(fmt.Sprintf("t%d", i))))
	}

	var written []string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := sink.Pump(ctx, func(payload domain.Outbound) error {
		written = append(written, payload.(domain.Task).ID)
		if len(written) == 5 {
			sink.Close()
		}
		return nil
	})

	req.NoError(err)
	req.Equal([]string{"t0", "t1", "t2", "t3", "t4"}, written)
}

func TestGrpcSink_Full_Outbox_Closes(t *testing.T) {
	req := require.New(t)
	sink := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 1)

	req.NoError(sink.Send(task("t0")))
	err := sink.Send(task("t1"))

	req.ErrorIs(err, errors.ErrBackpressure)
	req.ErrorIs(err, errors.ErrWrite)
	select {
	case <-sink.Done():
	default:
		t.Fatal("sink should be closed")
	}
	req.ErrorIs(sink.Send(task("t2")), errors.ErrConnectionClosed)
}

func TestGrpcSink_Write_Failure_Closes(t *testing.T) {
	req := require.New(t)
	sink := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 4)
	req.NoError(sink.Send(task("t0")))

	err := sink.Pump(context.Background(), func(domain.Outbound) error {
		return fmt.Errorf("transport is gone")
	})

	req.ErrorIs(err, errors.ErrWrite)
	req.ErrorIs(sink.Send(task("t1")), errors.ErrConnectionClosed)
}

func TestGrpcSink_Pump_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	sink := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sink.Pump(ctx, func(domain.Outbound) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("pump did not stop")
	}
}

func TestGrpcSink_Close_Is_Idempotent(t *testing.T) {
	sink := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 1)
	sink.Close()
	sink.Close()
	require.ErrorIs(t, sink.Send(task("t0")), errors.ErrConnectionClosed)
}
