package gateway

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/schoolsync/relay/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Outbound buffer per connection; slow readers get frames dropped by the
	// hub rather than stalling everyone else.
	sendBuffer = 256
)

// readPump reads frames from the websocket connection and dispatches them
// sequentially, so one connection's events are always handled in submission
// order. It returns when the connection dies, triggering disconnect cleanup.
func (g *Gateway) readPump(conn *websocket.Conn, connID string) {
	defer func() {
		g.disconnect(connID)
		conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		// The coder/websocket library manages keep-alives; a read simply
		// fails once the connection is dead.
		_, frame, err := conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "connID", connID)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "connID", connID, "error", err)
			}
			break
		}
		g.dispatch(context.Background(), connID, frame)
	}
}

// writePump drains the client's send channel into the websocket connection.
// It exits when the hub closes the channel on removal.
func (g *Gateway) writePump(conn *websocket.Conn, client *hub.Client) {
	defer conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for msg := range client.Send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "connID", client.ID, "error", err)
			return
		}
	}
}
