package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		expectKept bool
	}{
		{name: "generates id", header: "", expectKept: false},
		{name: "keeps caller id", header: "req-123", expectKept: true},
		{name: "keeps uuid", header: "0b5f1c1e-7a3a-4b7e-9d8e-2f1c3a4b5c6d", expectKept: true},
		{name: "replaces id with spaces", header: "req 123 injected", expectKept: false},
		{name: "replaces id with newline", header: "req\nlevel=error", expectKept: false},
		{name: "replaces overlong id", header: strings.Repeat("a", maxRequestIDLength+1), expectKept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tt.expectKept {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.NotEqual(t, tt.header, seen)
				assert.Len(t, seen, 36)
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetRequestID(req.Context()))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRecoveryMiddleware_AbortHandler(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithError(t, http.ErrAbortHandler.Error(), func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusUnauthorized, `bad "token"`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"bad \"token\""}`, w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		allowed        []string
		origin         string
		method         string
		expectedOrigin string
		expectedStatus int
	}{
		{
			name:           "wildcard",
			allowed:        []string{"*"},
			origin:         "http://example.com",
			method:         http.MethodGet,
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "listed origin",
			allowed:        []string{"http://app.example.com"},
			origin:         "http://APP.example.com",
			method:         http.MethodPost,
			expectedOrigin: "http://APP.example.com",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unlisted origin",
			allowed:        []string{"http://app.example.com"},
			origin:         "http://evil.example.com",
			method:         http.MethodGet,
			expectedOrigin: "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no origin",
			allowed:        []string{"*"},
			origin:         "",
			method:         http.MethodGet,
			expectedOrigin: "",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "preflight",
			allowed:        []string{"*"},
			origin:         "http://example.com",
			method:         http.MethodOptions,
			expectedOrigin: "*",
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			CORSMiddleware(tt.allowed)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length too large", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large body")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())
	})

	t.Run("unknown length too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large body"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
