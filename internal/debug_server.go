package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
)

const (
	defaultInspectPrefix = "task:"
	maxInspectRows       = 500
	shutdownTimeout      = 5 * time.Second
)

type InspectRow struct {
	Key       string `json:"key"`
	Namespace string `json:"namespace"`
	OwnerID   string `json:"owner_id"`
	EntityID  string `json:"entity_id"`
	Detail    string `json:"detail"`
}

// StatsProvider returns a live snapshot of in-memory counters.
type StatsProvider func() map[string]any

type inspectPage struct {
	Prefix string         `json:"prefix"`
	Items  []InspectRow   `json:"items"`
	Stats  map[string]any `json:"stats,omitempty"`
}

// DebugServer exposes health, registry counters and a read-only view of the
// key space over HTTP. It is a supervised worker.
type DebugServer struct {
	log     *slog.Logger
	db      *badger.DB
	stats   StatsProvider
	address string
}

func NewDebugServer(log *slog.Logger, db *badger.DB, stats StatsProvider, port int) *DebugServer {
	return &DebugServer{
		log:     log,
		db:      db,
		stats:   stats,
		address: fmt.Sprintf("127.0.0.1:%d", port),
	}
}

func (s *DebugServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/debug/registry", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.snapshot())
	})
	r.Get("/debug/inspect", s.inspect)
	return r
}

// Run serves until ctx is canceled, then shuts the HTTP server down.
func (s *DebugServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("debug server listen on %s: %w", s.address, err)
	}
	srv := &http.Server{
		Handler:     s.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Debug server listening", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("debug server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("Debug server shutdown", "error", err)
	}
	return nil
}

func (s *DebugServer) snapshot() map[string]any {
	if s.stats == nil {
		return map[string]any{}
	}
	return s.stats()
}

func (s *DebugServer) inspect(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = defaultInspectPrefix
	}
	page := inspectPage{Prefix: prefix, Items: []InspectRow{}, Stats: s.snapshot()}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid() && len(page.Items) < maxInspectRows; it.Next() {
			item := it.Item()
			page.Items = append(page.Items, DefaultMapper(string(item.Key()), item.ValueSize()))
		}
		return nil
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// DefaultMapper splits "namespace:owner:...:id" keys and the "idx:{name}:owner:...:id" index keys. Values are never exposed,
// password hashes live in the same key space.
func DefaultMapper(key string, size int64) InspectRow {
	parts := strings.Split(key, ":")
	row := InspectRow{
		Key:       key,
		Namespace: parts[0],
		Detail:    "Size: " + strconv.FormatInt(size, 10) + " bytes",
	}
	switch {
	case parts[0] == "idx" && len(parts) >= 5:
		row.Namespace = parts[0] + ":" + parts[1]
		row.OwnerID = parts[2]
		row.EntityID = parts[len(parts)-1]
	case len(parts) >= 3:
		row.OwnerID = parts[1]
		row.EntityID = parts[len(parts)-1]
	case len(parts) == 2:
		row.EntityID = parts[1]
	}
	return row
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
