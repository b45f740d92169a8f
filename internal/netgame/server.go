package netgame

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"blockworld/internal/protocol"
	"blockworld/internal/world"
)

const (
	writeTimeout  = 5 * time.Second
	readTimeout   = 120 * time.Second
	sessionBuffer = 256
)

// Server owns the authoritative world. Clients request chunk columns, which
// are generated on first demand, and push block edits that are applied and
// rebroadcast to every other client.
type Server struct {
	addr string
	log  *zap.Logger

	world *world.World
	gen   *world.Generator

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}

	httpSrv *http.Server
}

// session is one connected client. Outbound frames go through a buffered
// channel drained by a writer goroutine; a full buffer drops the frame
// rather than stalling the broadcast path.
type session struct {
	id   uuid.UUID
	name string
	out  chan []byte

	mu      sync.Mutex
	lastPos protocol.PlayerPosition
}

// NewServer creates a server for the given listen address and world seed.
func NewServer(addr string, seed int64, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr:  addr,
		log:   log,
		world: world.New(),
		gen:   world.NewGenerator(seed),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}
}

// World exposes the authoritative world, e.g. for tests.
func (s *Server) World() *world.World {
	return s.world
}

// Start begins serving websocket connections on /ws and Prometheus metrics
// on /metrics. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}
	s.log.Info("server listening", zap.String("addr", s.addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("netgame: serving on %s: %w", s.addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sess := &session{
		id:   uuid.New(),
		name: "player",
		out:  make(chan []byte, sessionBuffer),
	}
	s.addSession(sess)
	defer s.dropSession(sess)

	metricConnections.Inc()
	defer metricConnections.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine: drains the session's outbound queue.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case b, ok := <-sess.out:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}
		msg, err := protocol.Decode(raw)
		if err != nil {
			s.log.Warn("dropping malformed message",
				zap.String("session", sess.id.String()), zap.Error(err))
			continue
		}
		metricMessages.Inc()
		s.handleMessage(sess, msg)
	}
}

func (s *Server) handleMessage(sess *session, msg any) {
	switch m := msg.(type) {
	case *protocol.ClientConnect:
		if m.PlayerName != "" {
			sess.name = m.PlayerName
		}
		s.log.Info("client connected",
			zap.String("session", sess.id.String()), zap.String("player", sess.name))

	case *protocol.ChunkRequest:
		for _, pos := range m.Positions {
			s.sendChunk(sess, pos.ToWorld())
		}

	case *protocol.BlockUpdate:
		s.world.SetBlock(m.X, m.Y, m.Z, world.BlockType(m.NewType))
		s.broadcast(sess, m)

	case *protocol.PlayerPosition:
		sess.mu.Lock()
		sess.lastPos = *m
		sess.mu.Unlock()
	}
}

// sendChunk serves one column, generating it on first request.
func (s *Server) sendChunk(sess *session, pos world.ChunkPos) {
	c := s.world.GetChunk(pos)
	if c == nil {
		c = s.gen.GenerateChunk(pos)
		s.world.AddChunk(c)
		metricChunksGenerated.Inc()
	}

	payload, err := protocol.CompressBlocks(c.Blocks())
	if err != nil {
		s.log.Error("compressing chunk", zap.Int("x", pos.X), zap.Int("z", pos.Z), zap.Error(err))
		return
	}
	b, err := protocol.Encode(&protocol.ChunkData{
		Type:   protocol.TypeChunkData,
		Pos:    protocol.FromWorld(pos),
		Blocks: payload,
	})
	if err != nil {
		s.log.Error("encoding chunk data", zap.Error(err))
		return
	}
	sess.send(b)
	metricChunksServed.Inc()
}

// broadcast forwards a message to every session except the source.
func (s *Server) broadcast(from *session, msg any) {
	b, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error("encoding broadcast", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		if sess == from {
			continue
		}
		sess.send(b)
	}
}

// send queues a frame without blocking; a slow client loses the frame.
func (sess *session) send(b []byte) {
	select {
	case sess.out <- b:
	default:
	}
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) dropSession(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
	// The out channel is deliberately left open: a broadcast racing the
	// disconnect must not panic on a closed channel. The writer goroutine
	// exits via context cancellation.
	s.log.Info("client disconnected", zap.String("session", sess.id.String()))
}
