package runtime

import (
	"context"
	"log/slog"
	"sync"
	"task-lab/contract"
)

// Lifecycle wires the end of a stream to registry cleanup.
type Lifecycle struct {
	log *slog.Logger
}

func NewLifecycle(log *slog.Logger) *Lifecycle {
	return &Lifecycle{log: log}
}

// Guard runs the cleanup of one connection exactly once,
// whichever of cancel, close or release happens first.
type Guard struct {
	conn     contract.Connection
	cleanups []func()
	once     sync.Once
	released chan struct{}
	finished chan struct{}
	log      *slog.Logger
}

// Track watches the stream context and the connection itself.
// Cancellation or a broken connection triggers the cleanups; so does Release,
// which stream handlers defer on their return path.
func (l *Lifecycle) Track(ctx context.Context, conn contract.Connection, cleanups ...func()) *Guard {
	g := &Guard{
		conn:     conn,
		cleanups: cleanups,
		released: make(chan struct{}),
		finished: make(chan struct{}),
		log:      l.log,
	}
	go func() {
		select {
		case <-ctx.Done():
		case <-conn.Done():
		case <-g.released:
		}
		g.run()
	}()
	return g
}

// Release triggers the cleanup and waits for it to complete.
func (g *Guard) Release() {
	g.once.Do(func() { close(g.released) })
	<-g.finished
}

// Finished is closed once every cleanup has run.
func (g *Guard) Finished() <-chan struct{} {
	return g.finished
}

func (g *Guard) run() {
	// Close first: any write racing with the cleanup fails instead of
	// reaching a connection that is going away.
	g.conn.Close()
	for _, cleanup := range g.cleanups {
		cleanup()
	}
	g.log.Debug("Connection cleaned up", "connection_id", g.conn.ID())
	close(g.finished)
}
