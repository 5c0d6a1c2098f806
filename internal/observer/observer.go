// Package observer streams grid snapshots to browsers over WebSocket while a
// generation run is in progress.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/wfcgen/internal/config"
	"github.com/lawnchairsociety/wfcgen/internal/logger"
	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

const writeWait = 5 * time.Second

// SnapshotSource is anything that can hand out grid snapshots
type SnapshotSource interface {
	Snapshot() wfc.Snapshot
}

// Observer serves snapshots of a single source. It never touches the grid
// directly; every viewer polls Snapshot on its own ticker.
type Observer struct {
	cfg     config.ObserverConfig
	source  SnapshotSource
	limiter *ConnLimiter

	mu       sync.Mutex
	shutdown bool
	closed   chan struct{}
	wg       sync.WaitGroup
}

// New creates an observer for source
func New(cfg config.ObserverConfig, source SnapshotSource) *Observer {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Millisecond
	}
	return &Observer{
		cfg:     cfg,
		source:  source,
		limiter: NewConnLimiter(cfg),
		closed:  make(chan struct{}),
	}
}

// Handler returns the HTTP routes: /ws streams snapshots and /snapshot
// returns the current one as JSON.
func (o *Observer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", o.handleWebSocketUpgrade)
	mux.HandleFunc("/snapshot", o.handleSnapshot)
	return mux
}

// Serve listens on addr until ctx is cancelled, then closes every viewer.
func (o *Observer) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           o.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Observer listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	o.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops every active stream and waits for them to finish
func (o *Observer) Close() {
	o.mu.Lock()
	if !o.shutdown {
		o.shutdown = true
		close(o.closed)
	}
	o.mu.Unlock()
	o.wg.Wait()
}

// track registers a stream with Close. It reports false once Close has begun.
func (o *Observer) track() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.shutdown {
		return false
	}
	o.wg.Add(1)
	return true
}

// Viewers returns the number of connected viewers
func (o *Observer) Viewers() int {
	total, _ := o.limiter.Stats()
	return total
}

func (o *Observer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o.source.Snapshot()); err != nil {
		logger.Error("Snapshot encode failed", "error", err)
	}
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (o *Observer) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	select {
	case <-o.closed:
		http.Error(w, "observer is shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	ip := clientIP(r)
	if !o.limiter.TryAcquire(ip) {
		logger.Warning("Viewer rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip)
		http.Error(w, "Too many viewers. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := o.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Viewer rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		o.limiter.Release(ip)
		return
	}

	if !o.track() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "observer is shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		o.limiter.Release(ip)
		return
	}
	go func() {
		defer o.wg.Done()
		defer o.limiter.Release(ip)
		o.stream(conn)
	}()
}

// stream pushes a snapshot every time the version moves, until the viewer
// disconnects or the observer closes.
func (o *Observer) stream(conn *websocket.Conn) {
	defer conn.Close()
	logger.Debug("Viewer connected", "remote_addr", conn.RemoteAddr().String())

	// Viewers never send anything meaningful; reading only detects disconnects
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	var last uint64
	sent := false
	for {
		snap := o.source.Snapshot()
		if !sent || snap.Version != last {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				logger.Debug("Viewer write failed", "error", err)
				return
			}
			last = snap.Version
			sent = true
		}

		select {
		case <-gone:
			logger.Debug("Viewer disconnected", "remote_addr", conn.RemoteAddr().String())
			return
		case <-o.closed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "generation finished"))
			return
		case <-ticker.C:
		}
	}
}
