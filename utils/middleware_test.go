package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		log.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.String(http.StatusOK, "pong")
	})
	return r
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	buf := captureLogs(t)
	r := newEngine(RequestID(), RequestLogger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, id, entry["request_id"])
	}

	var access map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &access))
	assert.Equal(t, "request", access["message"])
	assert.Equal(t, "GET", access["method"])
	assert.Equal(t, "/ping", access["path"])
	assert.EqualValues(t, 200, access["status"])
}

func TestRequestID_ReusesClientHeader(t *testing.T) {
	captureLogs(t)
	r := newEngine(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))
}

func TestMetrics_CountsByRoute(t *testing.T) {
	m := NewMetrics()
	r := newEngine(m.Middleware())

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Requests().WithLabelValues("GET", "/ping", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests().WithLabelValues("GET", "unmatched", "404")))
}
