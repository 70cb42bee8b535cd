package workers

import (
	"context"
	"log/slog"
	"task-lab/domain"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type stubSessions map[domain.SessionKind]int

func (s stubSessions) CountByKind(kind domain.SessionKind) int { return s[kind] }

type stubRooms struct{ rooms, members int }

func (s stubRooms) Count() (int, int) { return s.rooms, s.members }

func TestReporterWorker_Snapshot(t *testing.T) {
	req := require.New(t)
	sessions := stubSessions{domain.TaskStream: 3, domain.NotificationStream: 1}
	w := NewReporterWorker(logs.GetLoggerFromLevel(slog.LevelDebug), sessions, stubRooms{rooms: 2, members: 5}, time.Second)

	s := w.Snapshot()

	req.Equal(3, s.TaskStreams)
	req.Equal(1, s.NotificationStreams)
	req.Equal(2, s.Rooms)
	req.Equal(5, s.RoomMembers)
	req.Positive(s.Goroutines)
	req.NotEmpty(s.Uptime)

	stats := w.Stats()
	req.Equal(3, stats["task_streams"])
	req.Equal(5, stats["room_members"])
}

func TestReporterWorker_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	w := NewReporterWorker(logs.GetLoggerFromLevel(slog.LevelDebug), stubSessions{}, stubRooms{}, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Then a cancellation is a clean stop, the supervisor must not restart it
	req.NoError(w.Run(ctx))
}
