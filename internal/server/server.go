package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/schoolsync/relay/internal/auth"
	"github.com/schoolsync/relay/internal/config"
	"github.com/schoolsync/relay/internal/database"
	"github.com/schoolsync/relay/internal/gateway"
	"github.com/schoolsync/relay/internal/hub"
	"github.com/schoolsync/relay/internal/logging"
	"github.com/schoolsync/relay/internal/pubsub"
	"github.com/schoolsync/relay/internal/relay"
	"github.com/schoolsync/relay/internal/rooms"
	"github.com/schoolsync/relay/internal/session"
	"github.com/schoolsync/relay/internal/store"
	"github.com/surrealdb/surrealdb.go"
)

// Server holds the dependencies for the relay process.
type Server struct {
	E   *echo.Echo
	DB  *surrealdb.DB
	Cfg *config.Config

	bus     *pubsub.WatermillBridge
	gateway *gateway.Gateway

	cancelDispatch context.CancelFunc
}

// New creates a fully wired relay server. All shared state (session registry,
// room router, hub) is created here, once, and passed by reference; nothing
// is an ambient singleton.
func New() *Server {
	logging.New()
	cfg := config.New()

	db, err := database.NewDB(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	bus := pubsub.NewWatermillBridge()

	sessions := session.NewRegistry()
	router := rooms.NewRouter()
	connHub := hub.New()

	out := relay.NewBroadcaster(bus)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	messages := store.NewSurrealMessageStore(db)
	whiteboards := store.NewSurrealWhiteboardStore(db)

	chat := relay.NewChatRelay(sessions, router, verifier, messages, out)
	whiteboard := relay.NewWhiteboardSync(sessions, router, whiteboards, out)
	gw := gateway.New(connHub, chat, whiteboard, out)

	dispatchCtx, cancel := context.WithCancel(context.Background())
	dispatcher := relay.NewDispatcher(connHub, router)
	if err := dispatcher.Run(dispatchCtx, bus); err != nil {
		slog.Error("Failed to start outbound dispatcher", "error", err)
		cancel()
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	return &Server{
		E:              e,
		DB:             db,
		Cfg:            cfg,
		bus:            bus,
		gateway:        gw,
		cancelDispatch: cancel,
	}
}
