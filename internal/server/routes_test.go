package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/relay/internal/gateway"
	"github.com/schoolsync/relay/internal/hub"
	"github.com/schoolsync/relay/internal/pubsub"
	"github.com/schoolsync/relay/internal/relay"
	"github.com/schoolsync/relay/internal/rooms"
	"github.com/schoolsync/relay/internal/session"
)

// newTestServer builds a Server with routes registered but no database or
// real bus; the health probe is entirely out of band of those.
func newTestServer() *Server {
	bus := pubsub.NewWatermillBridge()
	out := relay.NewBroadcaster(bus)
	sessions := session.NewRegistry()
	router := rooms.NewRouter()
	connHub := hub.New()

	chat := relay.NewChatRelay(sessions, router, nil, nil, out)
	whiteboard := relay.NewWhiteboardSync(sessions, router, nil, out)

	s := &Server{
		E:       echo.New(),
		bus:     bus,
		gateway: gateway.New(connHub, chat, whiteboard, out),
	}
	s.RegisterRoutes()
	return s
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "schoolsync-relay", body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestUnknownPathReturnsPlainTextNotFound(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")
}
