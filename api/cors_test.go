package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://analyzer.internal:8866"

func TestParseOriginAllowlist(t *testing.T) {
	t.Parallel()

	allowlist, err := ParseOriginAllowlist(" http://localhost:8866 ,, https://analyzer.example.com ")
	require.NoError(t, err)
	assert.Equal(t, OriginAllowlist{
		"http://localhost:8866":        {},
		"https://analyzer.example.com": {},
	}, allowlist)

	for _, bad := range []string{"http://localhost:8866/", "localhost:8866", "http://localhost:8866?x=1"} {
		_, err := ParseOriginAllowlist(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultOriginAllowlist(t *testing.T) {
	t.Parallel()

	allowlist := DefaultOriginAllowlist("analyzer.internal", 8866)
	assert.True(t, allowlist.Allows("http://localhost:8866"))
	assert.True(t, allowlist.Allows("http://127.0.0.1:8866"))
	assert.True(t, allowlist.Allows(testOrigin))
	assert.False(t, allowlist.Allows("http://localhost:9000"))
	assert.True(t, allowlist.Allows(""), "non-browser clients send no origin")

	assert.Len(t, DefaultOriginAllowlist("0.0.0.0", 8866), 3)
}

func TestOriginAllowlistFromEnv(t *testing.T) {
	t.Run("explicit list wins", func(t *testing.T) {
		t.Setenv("CLICKUPAI_ALLOWED_ORIGINS", "https://analyzer.example.com")
		allowlist, err := OriginAllowlistFromEnv()
		require.NoError(t, err)
		assert.True(t, allowlist.Allows("https://analyzer.example.com"))
		assert.False(t, allowlist.Allows("http://localhost:8866"))
	})

	t.Run("invalid list is an error", func(t *testing.T) {
		t.Setenv("CLICKUPAI_ALLOWED_ORIGINS", "not-an-origin")
		_, err := OriginAllowlistFromEnv()
		assert.Error(t, err)
	})

	t.Run("defaults follow server host and port", func(t *testing.T) {
		t.Setenv("CLICKUPAI_ALLOWED_ORIGINS", "")
		t.Setenv("CLICKUPAI_SERVER_HOST", "analyzer.internal")
		t.Setenv("CLICKUPAI_SERVER_PORT", "8866")
		allowlist, err := OriginAllowlistFromEnv()
		require.NoError(t, err)
		assert.True(t, allowlist.Allows(testOrigin))
	})
}

func TestRoutesEnforceOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl, _ := newTestController(t, "unused")
	router := DefineRoutes(ctrl, OriginAllowlist{testOrigin: {}})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantCORS   bool
	}{
		{"no origin", http.MethodGet, "", http.StatusOK, false},
		{"allowed origin", http.MethodGet, testOrigin, http.StatusOK, true},
		{"disallowed origin", http.MethodGet, "http://evil.example", http.StatusForbidden, false},
		{"allowed preflight", http.MethodOptions, testOrigin, http.StatusNoContent, true},
		{"disallowed preflight", http.MethodOptions, "http://evil.example", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/healthz", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORS {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestAnalyzeWebsocketOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl, _ := newTestController(t, "unused")
	s := httptest.NewServer(DefineRoutes(ctrl, OriginAllowlist{testOrigin: {}}))
	defer s.Close()
	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/v1/analyze"

	header := http.Header{}
	header.Set("Origin", testOrigin)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	header.Set("Origin", "http://evil.example")
	_, resp, err = websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
