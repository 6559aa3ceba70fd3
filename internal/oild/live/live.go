// Package live serves the WebSocket live-parse endpoint and the HTTP health
// report of the parse service.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/oil/foundation/core/error"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/internal/oild/service"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"github.com/msto63/oil/pkg/core/health"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler serves /live and /healthz
type Handler struct {
	svc      *service.Service
	registry *health.Registry
	logger   *mdwlog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a handler. registry may be nil, in which case /healthz
// always reports healthy.
func NewHandler(svc *service.Service, registry *health.Registry, logger *mdwlog.Logger) *Handler {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Handler{
		svc:      svc,
		registry: registry,
		logger:   logger.WithField("component", "oil-live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for local development
			},
		},
	}
}

// Routes returns the HTTP routes of the handler
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", h.serveLive)
	mux.HandleFunc("/healthz", h.serveHealth)
	return mux
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	report := &health.Report{Status: health.StatusHealthy, Timestamp: time.Now()}
	if h.registry != nil {
		report = h.registry.Check(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	if !report.Serving() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.WarnWithErr("health response failed", err)
	}
}

func (h *Handler) serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	logger := h.logger.WithField("remote", conn.RemoteAddr().String())
	logger.Info("WebSocket connection established")

	// Set read deadline for ping/pong
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		resp := h.answer(r.Context(), messageType, data)

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			logger.WarnWithErr("WebSocket write error", err)
			return
		}
	}
}

// answer turns one frame into a response in the gRPC Parse shape
func (h *Handler) answer(ctx context.Context, messageType int, data []byte) map[string]interface{} {
	ctx = coregrpc.WithRequestID(ctx, uuid.New().String())

	if messageType != websocket.TextMessage {
		return requestError(mdwerror.New("invalid request: frames must be JSON text").
			WithCode(mdwerror.CodeInvalidInput))
	}

	var frame map[string]interface{}
	if err := json.Unmarshal(data, &frame); err != nil {
		return requestError(mdwerror.Wrap(err, "invalid request").WithCode(mdwerror.CodeInvalidInput))
	}

	req, err := service.RequestFromMap(frame)
	if err != nil {
		return requestError(err)
	}

	resp, err := h.svc.Parse(ctx, req)
	if err != nil {
		return requestError(err)
	}
	return resp
}

func requestError(err error) map[string]interface{} {
	e, ok := mdwerror.As(err)
	if !ok {
		e = mdwerror.Wrap(err, "").WithCode(mdwerror.CodeInternal)
	}
	return map[string]interface{}{
		"expressions": []interface{}{},
		"end":         0.0,
		"error":       service.ErrorValue(e),
	}
}

// Server runs the handler on its own HTTP server
type Server struct {
	server *http.Server
	logger *mdwlog.Logger
}

// NewServer creates an HTTP server for h listening on addr
func NewServer(addr string, h *Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           h.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: h.logger,
	}
}

// Serve serves on listener until Shutdown
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("live endpoint listening", mdwlog.Fields{"address": listener.Addr().String()})
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Shutdown stops the server gracefully. Hijacked WebSocket connections are
// not tracked by net/http and close when their clients go away.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
