// Package server serves the editing protocol: JSON-RPC 2.0 requests that edit
// documents, and notifications about the changes, over stdio or websocket.
//
// Every connection gets its own Workspace, and with it its own session and
// undo history. Requests of a connection are handled in the order they arrive.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"

	gorilla "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/sourcegraph/jsonrpc2/websocket"
	"go.uber.org/zap"

	"src.deck.sh/pkg/logutil"
	"src.deck.sh/pkg/session"
	"src.deck.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("server")

// Server serves the editing protocol for documents in a store.
type Server struct {
	store storedefs.Store
	ids   session.IDs
	cfg   session.Config

	upgrader gorilla.Upgrader
	// Tracks connections, so that they can be waited for before the store is
	// closed.
	conns sync.WaitGroup
}

// New creates a new Server.
func New(store storedefs.Store, ids session.IDs, cfg session.Config) *Server {
	return &Server{
		store: store, ids: ids, cfg: cfg,
		upgrader: gorilla.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}
}

// ServeStream serves one connection until the peer disconnects or ctx is
// canceled. Pending changes of the connection's document are saved before it
// returns.
func (s *Server) ServeStream(ctx context.Context, stream jsonrpc2.ObjectStream, transport string) error {
	s.conns.Add(1)
	defer s.conns.Done()
	connectionsTotal.WithLabelValues(transport).Inc()
	connectionsActive.Inc()
	defer connectionsActive.Dec()
	logger.Info("connection opened", zap.String("transport", transport))

	c := newConnection(s.store, session.NewWorkspace(s.store, s.ids, s.cfg))
	conn := jsonrpc2.NewConn(ctx, stream, c.handler())
	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		conn.Close()
	}

	err := c.close(context.Background())
	if err != nil {
		logger.Error("failed to save on close", zap.Error(err))
	}
	logger.Info("connection closed", zap.String("transport", transport))
	return err
}

// Handler returns the HTTP handler of the server:
//
//   - GET /rpc upgrades to a websocket connection speaking the editing protocol,
//     one JSON-RPC object per message.
//   - GET /assets/{ref} serves an uploaded asset.
//   - GET /metrics serves Prometheus metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rpc", s.serveWebsocket)
	mux.HandleFunc("GET /assets/{ref}", s.serveAsset)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an error.
		logger.Warn("failed to upgrade", zap.Error(err))
		return
	}
	s.ServeStream(r.Context(), websocket.NewObjectStream(wsConn), "websocket")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Asset(r.Context(), r.PathValue("ref"))
	switch {
	case errors.Is(err, storedefs.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logger.Error("failed to read asset", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", http.DetectContentType(data))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	// Assets are content-addressed.
	h.Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}

// ListenAndServe serves HTTP on addr until ctx is canceled. It then closes all
// connections and waits for them to save their documents.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve is like ListenAndServe, but accepts connections on l.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv := &http.Server{
		Handler: s.Handler(),
		// Websocket connections outlive Shutdown; they end when the request
		// context is canceled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	logger.Info("listening", zap.String("addr", l.Addr().String()))
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	err := srv.Serve(l)
	cancel()
	s.conns.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
