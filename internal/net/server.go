package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"DecodingDen/internal/state"
)

// Source is the board being shared.
type Source interface {
	Snapshot() state.Snapshot
	EncodePNG(w io.Writer) error
}

// ShareServer lets other machines watch the board: live snapshots over a
// websocket and a PNG of the current page.
type ShareServer struct {
	src      Source
	hub      *Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewShareServer(src Source, log zerolog.Logger) *ShareServer {
	l := log.With().Str("component", "share").Logger()
	return &ShareServer{
		src: src,
		hub: NewHub(l),
		log: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes. The hub must be running, see Serve.
func (s *ShareServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /board.png", s.handlePNG)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Publish sends snap to every viewer.
func (s *ShareServer) Publish(snap state.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}
	s.hub.Broadcast(data)
}

func (s *ShareServer) Viewers() int { return s.hub.Viewers() }

// Serve runs the hub and serves on ln until ctx is done.
func (s *ShareServer) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)
	s.Publish(s.src.Snapshot())

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info().Str("addr", ln.Addr().String()).Msg("sharing board")

	select {
	case err := <-errCh:
		stopHub()
		<-s.hub.done
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("share server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-errCh
	<-s.hub.done
	return err
}

// ListenAndServe listens on port on every interface.
func (s *ShareServer) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return s.Serve(ctx, ln)
}

func (s *ShareServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("ws upgrade error")
		return
	}
	newPeer(s.hub, conn).start()
}

func (s *ShareServer) handlePNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.src.EncodePNG(w); err != nil {
		s.log.Error().Err(err).Msg("failed to encode board png")
	}
}

func (s *ShareServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"revision": snap.Revision,
		"strokes":  len(snap.Strokes),
		"viewers":  s.hub.Viewers(),
	})
}
