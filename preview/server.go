package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/lixenwraith/gridflood/flood"
	"github.com/lixenwraith/gridflood/parameter"
	"github.com/lixenwraith/gridflood/status"
	"github.com/lixenwraith/gridflood/tile"
	"github.com/lixenwraith/gridflood/vmath"
)

// Metric names written by the server
const (
	MetricRequests = "preview.requests"
	MetricRejected = "preview.rejected"
	MetricClients  = "preview.clients"
)

// errorReply is sent as a text frame when a request cannot be served
type errorReply struct {
	Error string `json:"error"`
}

// Server answers preview requests over websocket
// Each connection runs requests sequentially, connections run concurrently
type Server struct {
	engine     *flood.Engine
	stats      *status.Registry
	logger     *log.Logger
	runTimeout time.Duration
}

// NewServer creates a preview server, stats and logger may be nil
func NewServer(engine *flood.Engine, stats *status.Registry, logger *log.Logger, runTimeout time.Duration) *Server {
	if stats == nil {
		stats = status.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runTimeout <= 0 {
		runTimeout = parameter.PreviewRunTimeout
	}
	return &Server{
		engine:     engine,
		stats:      stats,
		logger:     logger,
		runTimeout: runTimeout,
	}
}

// Handler returns the HTTP routes: /preview (websocket), /schema and /metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Printf("preview: listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), parameter.PreviewWriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("preview shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Printf("preview: accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(parameter.PreviewReadLimit)

	clients := s.stats.Counters.Get(MetricClients)
	clients.Add(1)
	defer clients.Add(-1)

	ctx := r.Context()
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.logger.Printf("preview: read: %v", err)
			}
			return
		}
		if typ != websocket.MessageText {
			s.reject(ctx, conn, errors.New("requests must be JSON text frames"))
			continue
		}

		reply, err := s.serve(ctx, data)
		if err != nil {
			s.reject(ctx, conn, err)
			continue
		}
		if err := s.write(ctx, conn, websocket.MessageBinary, reply); err != nil {
			s.logger.Printf("preview: write: %v", err)
			return
		}
	}
}

// serve runs one request and returns the encoded state
func (s *Server) serve(ctx context.Context, data []byte) ([]byte, error) {
	s.stats.Counters.Get(MetricRequests).Add(1)

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ch, ok := s.engine.ChannelByName(req.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", flood.ErrUnknownChannel, req.Channel)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()
	res, err := s.engine.PropagateAt(runCtx, tile.MapID(req.Map), vmath.V(req.X, req.Y), req.Intensity, ch.ID, req.MaxRadius)
	if err != nil && res == nil {
		return nil, err
	}
	if err != nil {
		// Timed out: the partial state is still worth showing
		s.logger.Printf("preview: run on map %d cut short: %v", req.Map, err)
	}
	return Encode(Build(res))
}

func (s *Server) reject(ctx context.Context, conn *websocket.Conn, cause error) {
	s.stats.Counters.Get(MetricRejected).Add(1)
	msg, _ := json.Marshal(errorReply{Error: cause.Error()})
	if err := s.write(ctx, conn, websocket.MessageText, msg); err != nil {
		s.logger.Printf("preview: write error reply: %v", err)
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, typ websocket.MessageType, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, parameter.PreviewWriteTimeout)
	defer cancel()
	return conn.Write(ctx, typ, data)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Schema()); err != nil {
		s.logger.Printf("preview: schema: %v", err)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.stats.Snapshot()); err != nil {
		s.logger.Printf("preview: metrics: %v", err)
	}
}
