package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// TestLogging_NoCredentialsLogged ensures form bodies, cookies and query
// strings never reach the log.
func TestLogging_NoCredentialsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.WriteHeader(http.StatusSeeOther)
	}))

	body := url.Values{"username": {"alice"}, "password": {"hunter2-secret"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/login?token=query-secret", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "wanderlust_session", Value: "cookie-secret"})

	handler.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()
	for _, secret := range []string{"hunter2-secret", "query-secret", "cookie-secret"} {
		if strings.Contains(logOutput, secret) {
			t.Errorf("log output contains %q: %s", secret, logOutput)
		}
	}
}

// TestLogging_BasicFields verifies that expected non-sensitive fields are logged.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/listings", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")
	req.Header.Set(RequestIDHeader, "req-123")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	logOutput := buf.String()
	expectedFields := []string{
		`"msg":"http request"`,
		`"request_id":"req-123"`,
		`"method":"POST"`,
		`"path":"/listings"`,
		`"status_code":201`,
		`"bytes":5`,
		`"user_agent":"TestBrowser/2.0"`,
	}

	for _, field := range expectedFields {
		if !strings.Contains(logOutput, field) {
			t.Errorf("expected log field %s not found in output %s", field, logOutput)
		}
	}
}

// TestLogging_ErrorStatusLevel verifies the log level follows the status class.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"redirect", http.StatusSeeOther, "INFO"},
		{"bad request", http.StatusBadRequest, "WARN"},
		{"not found", http.StatusNotFound, "WARN"},
		{"too many requests", http.StatusTooManyRequests, "WARN"},
		{"internal error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/listings", nil))

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s for status %d, got %s", tt.wantLevel, tt.statusCode, buf.String())
			}
		})
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	t.Parallel()

	wrapped := wrapResponseWriter(httptest.NewRecorder())
	_, _ = wrapped.Write([]byte("hello"))

	if wrapped.status != http.StatusOK {
		t.Errorf("default status = %d, want %d", wrapped.status, http.StatusOK)
	}
	if wrapped.bytes != 5 {
		t.Errorf("bytes = %d, want 5", wrapped.bytes)
	}
}

func TestResponseWriter_DoubleWriteHeader(t *testing.T) {
	t.Parallel()

	wrapped := wrapResponseWriter(httptest.NewRecorder())
	wrapped.WriteHeader(http.StatusFound)
	wrapped.WriteHeader(http.StatusInternalServerError)

	if wrapped.status != http.StatusFound {
		t.Errorf("status after double write = %d, want %d", wrapped.status, http.StatusFound)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{"reuses well formed id", "abc-123_DEF.4", true},
		{"generates when missing", "", false},
		{"replaces malformed id", "bad id\nwith newline", false},
		{"replaces oversized id", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("request id missing from context")
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("header = %q, context = %q", got, seen)
			}
			if (seen == tt.incoming) != tt.wantSame {
				t.Errorf("id = %q, incoming %q, wantSame %v", seen, tt.incoming, tt.wantSame)
			}
		})
	}
}
