package workers

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"task-lab/domain"
	"time"

	"github.com/shirou/gopsutil/process"
)

type SessionCounter interface {
	CountByKind(kind domain.SessionKind) int
}

type RoomCounter interface {
	Count() (rooms, members int)
}

// Snapshot is one reading of the live registries and of the process itself.
type Snapshot struct {
	TaskStreams         int     `json:"task_streams"`
	NotificationStreams int     `json:"notification_streams"`
	Rooms               int     `json:"rooms"`
	RoomMembers         int     `json:"room_members"`
	Goroutines          int     `json:"goroutines"`
	RSSBytes            uint64  `json:"rss_bytes"`
	CPUPercent          float64 `json:"cpu_percent"`
	Uptime              string  `json:"uptime"`
}

// ReporterWorker logs a Snapshot every interval until its context ends.
type ReporterWorker struct {
	log       *slog.Logger
	sessions  SessionCounter
	rooms     RoomCounter
	interval  time.Duration
	startedAt time.Time
	proc      *process.Process
}

func NewReporterWorker(log *slog.Logger, sessions SessionCounter, rooms RoomCounter, interval time.Duration) *ReporterWorker {
	w := &ReporterWorker{
		log:       log,
		sessions:  sessions,
		rooms:     rooms,
		interval:  interval,
		startedAt: time.Now(),
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		w.proc = p
	} else {
		log.Warn("Process metrics unavailable", "error", err)
	}
	return w
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			w.log.Debug("Reporter stopped")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *ReporterWorker) report() {
	s := w.Snapshot()
	w.log.Info("Runtime report",
		"task_streams", s.TaskStreams,
		"notification_streams", s.NotificationStreams,
		"rooms", s.Rooms,
		"room_members", s.RoomMembers,
		"goroutines", s.Goroutines,
		"rss_mb", s.RSSBytes/1024/1024,
		"cpu_percent", s.CPUPercent,
		"uptime", s.Uptime,
	)
}

// Snapshot reads the registries and the process metrics. Process metrics
// are left at zero when the platform does not expose them.
func (w *ReporterWorker) Snapshot() Snapshot {
	rooms, members := w.rooms.Count()
	s := Snapshot{
		TaskStreams:         w.sessions.CountByKind(domain.TaskStream),
		NotificationStreams: w.sessions.CountByKind(domain.NotificationStream),
		Rooms:               rooms,
		RoomMembers:         members,
		Goroutines:          goruntime.NumGoroutine(),
		Uptime:              time.Since(w.startedAt).Round(time.Second).String(),
	}
	if w.proc == nil {
		return s
	}
	if mem, err := w.proc.MemoryInfo(); err == nil {
		s.RSSBytes = mem.RSS
	}
	if cpu, err := w.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	return s
}

// Stats flattens the snapshot for the debug server.
func (w *ReporterWorker) Stats() map[string]any {
	s := w.Snapshot()
	return map[string]any{
		"task_streams":         s.TaskStreams,
		"notification_streams": s.NotificationStreams,
		"rooms":                s.Rooms,
		"room_members":         s.RoomMembers,
		"goroutines":           s.Goroutines,
		"rss_bytes":            s.RSSBytes,
		"cpu_percent":          s.CPUPercent,
		"uptime":               s.Uptime,
	}
}
