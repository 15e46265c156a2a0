package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"dinehall-order-service/internal/auth"
	"dinehall-order-service/internal/config"
	"dinehall-order-service/internal/engine"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server fans committed table events out to POS, kitchen and floor clients.
// It implements engine.Notifier, so the engine pushes to it after every
// commit; there is no polling.
type Server struct {
	Engine *engine.Engine
	Logger *zap.Logger
	Config config.Config

	tableFeed *realtimeFeed
	floorFeed *realtimeFeed
}

func New(eng *engine.Engine, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{
		Engine:    eng,
		Logger:    logger,
		Config:    cfg,
		tableFeed: newRealtimeFeed(),
		floorFeed: newRealtimeFeed(),
	}
}

// floorKey is the single subscription key for clients that watch every table.
const floorKey = "floor"

// Notify implements engine.Notifier.
func (s *Server) Notify(evt engine.TableEvent) {
	message := map[string]any{
		"type": evt.Type,
		"data": evt,
	}
	s.tableFeed.broadcast(evt.TableID, message)
	s.floorFeed.broadcast(floorKey, map[string]any{
		"type": "table.state",
		"data": evt.Table,
	})
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

func (c *wsClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

type realtimeFeed struct {
	mu   sync.RWMutex
	subs map[string]map[*wsClient]struct{}
}

func newRealtimeFeed() *realtimeFeed {
	return &realtimeFeed{subs: make(map[string]map[*wsClient]struct{})}
}

func (f *realtimeFeed) subscribe(key string, client *wsClient) (unsubscribe func()) {
	key = strings.TrimSpace(key)
	if key == "" {
		return func() {}
	}

	f.mu.Lock()
	if f.subs[key] == nil {
		f.subs[key] = make(map[*wsClient]struct{})
	}
	f.subs[key][client] = struct{}{}
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		clients := f.subs[key]
		delete(clients, client)
		if len(clients) == 0 {
			delete(f.subs, key)
		}
		f.mu.Unlock()
	}
}

func (f *realtimeFeed) broadcast(key string, message any) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	f.mu.RLock()
	clientsMap := f.subs[key]
	clients := make([]*wsClient, 0, len(clientsMap))
	for c := range clientsMap {
		clients = append(clients, c)
	}
	f.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			f.mu.Lock()
			if current := f.subs[key]; current != nil {
				delete(current, c)
				if len(current) == 0 {
					delete(f.subs, key)
				}
			}
			f.mu.Unlock()
		}
	}
}

func (s *Server) authorize(r *http.Request, surface auth.Surface) (*auth.Claims, bool) {
	token := auth.ParseBearerToken(r.URL.Query().Get("token"))
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil {
		return nil, false
	}
	if !claims.Role.Allowed(surface) {
		return nil, false
	}
	return claims, true
}

// TableWS streams one table's live state: item status changes, bill events
// and the running total. The ordering device of that table subscribes here.
func (s *Server) TableWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if _, ok := s.authorize(r, auth.SurfaceOrdering); !ok {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	tableID := strings.TrimSpace(r.URL.Query().Get("tableId"))
	if tableID == "" {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "invalid request"})
		return
	}

	client := &wsClient{conn: conn}
	unsubscribe := s.tableFeed.subscribe(tableID, client)
	defer unsubscribe()

	// Initial snapshot so the client does not start blind.
	_ = client.writeJSON(map[string]any{"type": "table.state", "data": s.Engine.Snapshot(tableID)})

	s.serve(r, client)
}

// KitchenWS streams every table's events to the kitchen display. The kitchen
// filters on item status client-side; the feed carries the full event.
func (s *Server) KitchenWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if _, ok := s.authorize(r, auth.SurfaceKitchen); !ok {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	client := &wsClient{conn: conn}
	unsubscribe := s.floorFeed.subscribe(floorKey, client)
	defer unsubscribe()

	_ = client.writeJSON(map[string]any{"type": "floor.state", "data": s.Engine.Snapshots()})

	s.serve(r, client)
}

// FloorWS streams table availability for the host stand.
func (s *Server) FloorWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if _, ok := s.authorize(r, auth.SurfaceFloor); !ok {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	client := &wsClient{conn: conn}
	unsubscribe := s.floorFeed.subscribe(floorKey, client)
	defer unsubscribe()

	_ = client.writeJSON(map[string]any{"type": "floor.state", "data": s.Engine.Snapshots()})

	s.serve(r, client)
}

// serve pumps reads until the client goes away and pings on the configured
// heartbeat so half-open connections get reaped.
func (s *Server) serve(r *http.Request, client *wsClient) {
	ctx := r.Context()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := client.conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	heartbeat := s.Config.WSHeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				if s.Logger != nil {
					s.Logger.Debug("ws heartbeat failed", zap.Error(err))
				}
				return
			}
		}
	}
}
