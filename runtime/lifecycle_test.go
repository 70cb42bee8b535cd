package runtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"task-lab/domain"
	"task-lab/errors"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func waitFinished(t *testing.T, g *Guard) {
	t.Helper()
	select {
	case <-g.Finished():
	case <-time.After(time.Second):
		t.Fatal("cleanup did not run")
	}
}

func TestLifecycle_Cleanup_On_Cancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sessions := NewSessionRegistry(log)
	dispatcher := NewDispatcher(log, sessions, NewRoomRegistry(log))
	conn := newFakeConn("c1")
	id := sessions.Register("alice", domain.TaskStream, nil, conn)
	ctx, cancel := context.WithCancel(context.Background())

	guard := NewLifecycle(log).Track(ctx, conn, func() { sessions.Unregister(id) })

	// When the client cancels its stream
	cancel()
	waitFinished(t, guard)

	// Then the session is gone and nothing is delivered afterwards
	_, ok := sessions.Get(id)
	req.False(ok)
	req.Zero(dispatcher.DispatchTaskEvent(taskEvent(domain.TaskCreated, "alice", false)))
	req.ErrorIs(conn.Send(domain.Task{}), errors.ErrWrite)
}

func TestLifecycle_Cleanup_On_Connection_Close(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	rooms := NewRoomRegistry(log)
	conn := newFakeConn("c1")
	rooms.Join("general", conn, alice)

	guard := NewLifecycle(log).Track(context.Background(), conn, func() { rooms.Leave("general", conn) })

	// When the transport drops the connection
	conn.Close()
	waitFinished(t, guard)

	// Then the emptied room disappears, and a later join recreates it fresh
	require.Empty(t, rooms.Rooms())
	other := newFakeConn("c2")
	rooms.Join("general", other, bob)
	require.Equal(t, []domain.Identity{bob}, rooms.Members("general"))
}

func TestLifecycle_Cleanup_Runs_Once(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	conn := newFakeConn("c1")
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	guard := NewLifecycle(log).Track(ctx, conn, func() { calls.Add(1) })

	// When every termination signal fires at once
	var wg sync.WaitGroup
	for _, stop := range []func(){cancel, conn.Close, guard.Release, guard.Release} {
		wg.Add(1)
		go func(stop func()) {
			defer wg.Done()
			stop()
		}(stop)
	}
	wg.Wait()
	waitFinished(t, guard)

	// Then the cleanup ran exactly once
	req.Equal(int32(1), calls.Load())
}

func TestLifecycle_Release_Waits_For_Cleanup(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	conn := newFakeConn("c1")
	var cleaned atomic.Bool

	guard := NewLifecycle(log).Track(context.Background(), conn, func() {
		time.Sleep(20 * time.Millisecond)
		cleaned.Store(true)
	})

	guard.Release()

	req.True(cleaned.Load())
}
