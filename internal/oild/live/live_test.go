package live

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/internal/oild/service"
	"github.com/msto63/oil/pkg/core/health"
)

func newTestHandler(t *testing.T, registry *health.Registry) *Handler {
	t.Helper()
	svc, err := service.New(service.Config{Logger: mdwlog.Discard()})
	if err != nil {
		t.Fatalf("service.New() error = %v", err)
	}
	return NewHandler(svc, registry, mdwlog.Discard())
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestLive_RoundTrip(t *testing.T) {
	server := httptest.NewServer(newTestHandler(t, nil).Routes())
	defer server.Close()
	conn := dial(t, server)

	tests := []struct {
		name        string
		messageType int
		frame       string
		check       func(t *testing.T, resp map[string]interface{})
	}{
		{
			name:        "statements",
			messageType: websocket.TextMessage,
			frame:       `{"text": "eight 8 text \"text\" box {}"}`,
			check: func(t *testing.T, resp map[string]interface{}) {
				if exprs := resp["expressions"].([]interface{}); len(exprs) != 3 {
					t.Errorf("expressions = %v, want 3", exprs)
				}
				if _, failed := resp["error"]; failed {
					t.Errorf("unexpected error %v", resp["error"])
				}
			},
		},
		{
			name:        "one expression in range",
			messageType: websocket.TextMessage,
			frame:       `{"text": "xx a ?? b", "start": 3, "one": true}`,
			check: func(t *testing.T, resp map[string]interface{}) {
				expr := resp["expression"].(map[string]interface{})
				if expr["!exp"] != "??" {
					t.Errorf("expression = %v", expr)
				}
				if resp["end"] != 9.0 {
					t.Errorf("end = %v, want 9", resp["end"])
				}
			},
		},
		{
			name:        "syntax error",
			messageType: websocket.TextMessage,
			frame:       `{"text": "box {"}`,
			check: func(t *testing.T, resp map[string]interface{}) {
				if _, failed := resp["error"]; !failed {
					t.Error("missing error")
				}
			},
		},
		{
			name:        "malformed json",
			messageType: websocket.TextMessage,
			frame:       `{"text": `,
			check:       expectCode("INVALID_INPUT"),
		},
		{
			name:        "missing text",
			messageType: websocket.TextMessage,
			frame:       `{"start": 1}`,
			check:       expectCode("INVALID_INPUT"),
		},
		{
			name:        "binary frame",
			messageType: websocket.BinaryMessage,
			frame:       `{"text": "a"}`,
			check:       expectCode("INVALID_INPUT"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(tt.messageType, []byte(tt.frame)); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}

			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			var resp map[string]interface{}
			if err := conn.ReadJSON(&resp); err != nil {
				t.Fatalf("ReadJSON() error = %v", err)
			}
			tt.check(t, resp)
		})
	}
}

func expectCode(code string) func(t *testing.T, resp map[string]interface{}) {
	return func(t *testing.T, resp map[string]interface{}) {
		e, ok := resp["error"].(map[string]interface{})
		if !ok || e["code"] != code {
			t.Errorf("error = %v, want code %s", resp["error"], code)
		}
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name     string
		status   health.Status
		wantCode int
	}{
		{"healthy", health.StatusHealthy, http.StatusOK},
		{"degraded", health.StatusDegraded, http.StatusOK},
		{"unhealthy", health.StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := health.NewRegistry("oil", "test")
			registry.RegisterFunc("probe", func(ctx context.Context) health.CheckResult {
				return health.CheckResult{Status: tt.status}
			})

			rec := httptest.NewRecorder()
			newTestHandler(t, registry).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			var report health.Report
			if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if report.Service != "oil" || len(report.Checks) != 1 {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	server := NewServer(listener.Addr().String(), newTestHandler(t, nil))
	done := make(chan error, 1)
	go func() { done <- server.Serve(listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status code = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}
