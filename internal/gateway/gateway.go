// Package gateway accepts websocket connections, assigns each an ephemeral
// connection id, and turns raw frames into validated relay events. It is the
// only package that touches the transport.
package gateway

import (
	"context"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/schoolsync/relay/internal/events"
	"github.com/schoolsync/relay/internal/hub"
	"github.com/schoolsync/relay/internal/relay"
)

// Gateway upgrades HTTP requests and routes decoded events to the relay.
type Gateway struct {
	hub        *hub.Hub
	chat       *relay.ChatRelay
	whiteboard *relay.WhiteboardSync
	out        *relay.Broadcaster
}

// New creates a gateway over the given hub and relay components.
func New(h *hub.Hub, chat *relay.ChatRelay, whiteboard *relay.WhiteboardSync, out *relay.Broadcaster) *Gateway {
	return &Gateway{
		hub:        h,
		chat:       chat,
		whiteboard: whiteboard,
		out:        out,
	}
}

// Handler returns the echo handler that upgrades a request to a websocket
// connection. Every new transport connection starts unauthenticated; identity
// arrives later via the authenticate event.
func (g *Gateway) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Origin is checked by the fronting proxy.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		connID := uuid.NewString()
		client := hub.NewClient(connID, sendBuffer)
		g.hub.Add(client)
		slog.Info("Connection established", "connID", connID)

		go g.writePump(conn, client)
		go g.readPump(conn, connID)

		return nil
	}
}

type invalidPayload struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

// dispatch decodes one inbound frame and hands it to the owning component.
// Malformed or incomplete payloads are rejected with a structured error to
// the sender instead of propagating missing fields downstream.
func (g *Gateway) dispatch(ctx context.Context, connID string, frame []byte) {
	env, err := events.DecodeEnvelope(frame)
	if err != nil {
		g.out.ToConn(connID, events.InvalidPayload, invalidPayload{Reason: err.Error()})
		return
	}

	reject := func(err error) {
		slog.Warn("Rejected malformed payload", "connID", connID, "event", env.Event, "error", err)
		g.out.ToConn(connID, events.InvalidPayload, invalidPayload{Event: env.Event, Reason: err.Error()})
	}

	switch env.Event {
	case events.Authenticate:
		var p events.AuthenticatePayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleAuthenticate(connID, p)

	case events.JoinChannel:
		var p events.JoinChannelPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleJoinChannel(connID, p)

	case events.LeaveChannel:
		var p events.LeaveChannelPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleLeaveChannel(connID, p)

	case events.SendMessage:
		var p events.SendMessagePayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleSendMessage(ctx, connID, p)

	case events.TypingStart:
		var p events.TypingStartPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleTypingStart(connID, p)

	case events.TypingStop:
		var p events.TypingStopPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleTypingStop(connID, p)

	case events.AddReaction:
		var p events.AddReactionPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.chat.HandleAddReaction(connID, p)

	case events.JoinBlackboard:
		var p events.JoinBlackboardPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.whiteboard.HandleJoin(connID, p)

	case events.LeaveBlackboard:
		var p events.LeaveBlackboardPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.whiteboard.HandleLeave(connID, p)

	case events.Drawing:
		var p events.DrawingPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.whiteboard.HandleDrawing(connID, p)

	case events.Commit:
		var p events.CommitPayload
		if err := events.DecodePayload(env, &p); err != nil {
			reject(err)
			return
		}
		g.whiteboard.HandleCommit(ctx, connID, p)

	default:
		g.out.ToConn(connID, events.InvalidPayload, invalidPayload{Event: env.Event, Reason: "unknown event"})
	}
}

// disconnect runs full teardown for a dead connection: explicit leaves for
// blackboard rooms, the global disconnect notice, then session and hub
// removal. Channel room membership is left behind as a stale label.
func (g *Gateway) disconnect(connID string) {
	g.whiteboard.HandleDisconnect(connID)
	g.chat.HandleDisconnect(connID)
	g.hub.Remove(connID)
	slog.Info("Connection closed", "connID", connID)
}
