package inspect

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-go/reactor/pkg/host"
	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

const writeTimeout = 5 * time.Second

// Message is a frame sent to WebSocket clients.
type Message struct {
	Type   string       `json:"type"`
	Commit *host.Record `json:"commit,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// EventRequest is an inbound event, over POST /events or the WebSocket.
type EventRequest struct {
	HID   string `json:"hid"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Key   string `json:"key,omitempty"`
}

func (e EventRequest) event() vdom.Event {
	return vdom.Event{Type: e.Type, Value: e.Value, Key: e.Key}
}

// Inspector serves one root.
type Inspector struct {
	root     *reactor.Root
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	last    *host.Record
	clients map[*websocket.Conn]*sync.Mutex
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithGatherer sets the registry served on /metrics. The default is the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(i *Inspector) {
		if g != nil {
			i.gatherer = g
		}
	}
}

// WithCheckOrigin sets the WebSocket origin check. By default every origin
// is allowed.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(i *Inspector) {
		i.upgrader.CheckOrigin = fn
	}
}

// New creates an inspector. Attach a root before serving.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Attach sets the root whose stats and events the inspector serves.
func (i *Inspector) Attach(root *reactor.Root) {
	i.mu.Lock()
	i.root = root
	i.mu.Unlock()
}

func (i *Inspector) attached() *reactor.Root {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.root
}

// Commit implements reactor.Host.
func (i *Inspector) Commit(c *reactor.Commit) error {
	rec := host.NewRecord(c)
	i.mu.Lock()
	i.last = &rec
	i.mu.Unlock()
	i.broadcast(Message{Type: "commit", Commit: &rec})
	return nil
}

// Handler returns the inspector's routes.
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/tree", i.handleTree)
	r.Get("/stats", i.handleStats)
	r.Get("/snapshot", i.handleSnapshot)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", i.handleWebSocket)
	r.Post("/events", i.handleEvent)
	return r
}

// ClientCount returns the number of connected WebSocket clients.
func (i *Inspector) ClientCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.clients)
}

// Close disconnects every WebSocket client.
func (i *Inspector) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for conn := range i.clients {
		conn.Close()
		delete(i.clients, conn)
	}
}

func (i *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	i.mu.RLock()
	last := i.last
	i.mu.RUnlock()
	if last == nil {
		http.Error(w, "nothing committed", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (i *Inspector) handleStats(w http.ResponseWriter, r *http.Request) {
	root := i.attached()
	if root == nil {
		http.Error(w, "no root attached", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, root.Stats())
}

func (i *Inspector) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	root := i.attached()
	if root == nil {
		http.Error(w, "no root attached", http.StatusServiceUnavailable)
		return
	}
	snap := root.Snapshot()
	if snap == nil {
		http.Error(w, "nothing mounted", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (i *Inspector) handleEvent(w http.ResponseWriter, r *http.Request) {
	root := i.attached()
	if root == nil {
		http.Error(w, "no root attached", http.StatusServiceUnavailable)
		return
	}
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HID == "" || req.Type == "" {
		http.Error(w, "event needs hid and type", http.StatusBadRequest)
		return
	}

	err := root.Trigger(req.HID, req.event())
	var herr *reactor.HandlerError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, reactor.ErrHandlerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, reactor.ErrHalted) || root.Err() != nil:
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &herr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	wmu := &sync.Mutex{}
	i.mu.Lock()
	i.clients[conn] = wmu
	last := i.last
	i.mu.Unlock()

	if last != nil {
		i.send(conn, wmu, Message{Type: "commit", Commit: last})
	}

	for {
		var req EventRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				i.logger.Error("inspector read error", "error", err)
			}
			break
		}
		root := i.attached()
		if root == nil || !root.Fire(req.HID, req.event()) {
			i.send(conn, wmu, Message{Type: "error", Error: "event not queued"})
		}
	}

	i.mu.Lock()
	delete(i.clients, conn)
	i.mu.Unlock()
	conn.Close()
}

func (i *Inspector) broadcast(msg Message) {
	i.mu.RLock()
	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}
	clients := make([]client, 0, len(i.clients))
	for conn, mu := range i.clients {
		clients = append(clients, client{conn, mu})
	}
	i.mu.RUnlock()

	for _, c := range clients {
		i.send(c.conn, c.mu, msg)
	}
}

func (i *Inspector) send(conn *websocket.Conn, wmu *sync.Mutex, msg Message) {
	wmu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := conn.WriteJSON(msg)
	wmu.Unlock()
	if err != nil {
		i.mu.Lock()
		delete(i.clients, conn)
		i.mu.Unlock()
		conn.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
