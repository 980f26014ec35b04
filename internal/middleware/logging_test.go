package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// captureLog routes the default logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// accessEntry is the part of an access log line the tests check.
type accessEntry struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Bytes     int    `json:"bytes"`
	RequestID string `json:"request_id"`
}

func lastEntry(t *testing.T, buf *bytes.Buffer) accessEntry {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var e accessEntry
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &e); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return e
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel string
		wantBytes int
	}{
		{
			name:   "implicit 200",
			method: http.MethodGet, path: "/api/outline",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			wantCode: http.StatusOK, wantLevel: "INFO", wantBytes: 5,
		},
		{
			name:   "created",
			method: http.MethodPost, path: "/api/categories",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) },
			wantCode: http.StatusCreated, wantLevel: "INFO",
		},
		{
			name:   "not found",
			method: http.MethodPost, path: "/api/categories/missing/child",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantCode: http.StatusNotFound, wantLevel: "WARN",
		},
		{
			name:   "server error",
			method: http.MethodGet, path: "/api/graph",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.WriteHeader(http.StatusOK)
			},
			wantCode: http.StatusInternalServerError, wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			rr := httptest.NewRecorder()
			Logger(tt.handler).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			e := lastEntry(t, buf)
			if e.Msg != "http request" || e.Method != tt.method || e.Path != tt.path {
				t.Errorf("entry: got %+v", e)
			}
			if e.Status != tt.wantCode || e.Level != tt.wantLevel || e.Bytes != tt.wantBytes {
				t.Errorf("entry: got status %d level %s bytes %d, want %d %s %d",
					e.Status, e.Level, e.Bytes, tt.wantCode, tt.wantLevel, tt.wantBytes)
			}
			if e.RequestID == "" || e.RequestID != rr.Header().Get(RequestIDHeader) {
				t.Errorf("request_id: logged %q, header %q", e.RequestID, rr.Header().Get(RequestIDHeader))
			}
		})
	}
}

func TestLoggerRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"absent", "", false},
		{"reused", "abc-123", true},
		{"too long", strings.Repeat("x", 65), false},
		{"control characters", "abc\n123", false},
		{"space", "abc 123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLog(t)
			var seen string
			handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
			if tt.incoming != "" {
				req.Header[RequestIDHeader] = []string{tt.incoming}
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if seen == "" {
				t.Fatal("RequestID() empty inside handler")
			}
			if got := rr.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("%s: got %q, want %q", RequestIDHeader, got, seen)
			}
			if (seen == tt.incoming) != tt.reused {
				t.Errorf("RequestID() = %q, reused incoming = %v, want %v", seen, seen == tt.incoming, tt.reused)
			}
		})
	}

	t.Run("empty outside Logger", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id := RequestID(req.Context()); id != "" {
			t.Errorf("RequestID() = %q, want empty", id)
		}
	})
}

func TestResponseWriterStatus(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	if got := rw.Status(); got != http.StatusOK {
		t.Errorf("untouched Status(): got %d, want 200", got)
	}

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusInternalServerError)
	n, err := rw.Write([]byte("pending"))
	if err != nil || n != 7 {
		t.Fatalf("Write: got %d, %v", n, err)
	}
	if rw.Status() != http.StatusAccepted || rw.bytes != 7 {
		t.Errorf("got status %d bytes %d, want 202 and 7", rw.Status(), rw.bytes)
	}
}
