package relay

import (
	"context"
	"log/slog"

	"github.com/schoolsync/relay/internal/events"
	"github.com/schoolsync/relay/internal/hub"
	"github.com/schoolsync/relay/internal/pubsub"
	"github.com/schoolsync/relay/internal/rooms"
)

// TopicOutbound is the single bus topic all outbound relay traffic flows
// through. One topic means one FIFO stream, so a given sender's emissions
// reach clients in the order its handlers produced them.
const TopicOutbound = "relay.outbound"

// Metadata keys used to route outbound messages at dispatch time.
const (
	metaScope   = "scope"
	metaRoom    = "room"
	metaExclude = "exclude"
	metaTarget  = "target"

	scopeRoom   = "room"
	scopeDirect = "direct"
	scopeGlobal = "global"
)

// Broadcaster encodes outbound events and publishes them to the bus.
// Handlers never talk to the hub directly.
type Broadcaster struct {
	pub pubsub.Publisher
}

// NewBroadcaster creates a broadcaster over the given publisher.
func NewBroadcaster(pub pubsub.Publisher) *Broadcaster {
	return &Broadcaster{pub: pub}
}

func (b *Broadcaster) publish(connID string, metadata map[string]string, event string, data any) {
	payload, err := events.Marshal(event, data)
	if err != nil {
		slog.Error("Failed to encode outbound event", "event", event, "error", err)
		return
	}

	msg := pubsub.Message{
		Topic:    TopicOutbound,
		ConnID:   connID,
		Payload:  payload,
		Metadata: metadata,
	}
	if err := b.pub.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish outbound event", "event", event, "error", err)
	}
}

// ToRoom sends an event to every current member of a room, skipping exclude
// when non-empty.
func (b *Broadcaster) ToRoom(room, exclude, event string, data any) {
	b.publish(exclude, map[string]string{
		metaScope:   scopeRoom,
		metaRoom:    room,
		metaExclude: exclude,
	}, event, data)
}

// ToConn sends an event to a single connection.
func (b *Broadcaster) ToConn(connID, event string, data any) {
	b.publish(connID, map[string]string{
		metaScope:  scopeDirect,
		metaTarget: connID,
	}, event, data)
}

// ToAll sends an event to every connected client, skipping exclude when
// non-empty.
func (b *Broadcaster) ToAll(exclude, event string, data any) {
	b.publish(exclude, map[string]string{
		metaScope:   scopeGlobal,
		metaExclude: exclude,
	}, event, data)
}

// Dispatcher consumes the outbound topic and performs the actual delivery,
// resolving room membership at dispatch time.
type Dispatcher struct {
	hub    *hub.Hub
	router *rooms.Router
}

// NewDispatcher creates a dispatcher writing into the given hub.
func NewDispatcher(h *hub.Hub, router *rooms.Router) *Dispatcher {
	return &Dispatcher{hub: h, router: router}
}

// Run subscribes the dispatcher to the outbound topic. Delivery runs until
// the context is canceled.
func (d *Dispatcher) Run(ctx context.Context, sub pubsub.Subscriber) error {
	return sub.Subscribe(ctx, TopicOutbound, d.handle)
}

func (d *Dispatcher) handle(ctx context.Context, msg pubsub.Message) error {
	exclude := msg.Metadata[metaExclude]

	switch msg.Metadata[metaScope] {
	case scopeRoom:
		members := d.router.Members(msg.Metadata[metaRoom])
		d.hub.SendMany(members, exclude, msg.Payload)
	case scopeDirect:
		d.hub.SendTo(msg.Metadata[metaTarget], msg.Payload)
	case scopeGlobal:
		d.hub.SendAll(exclude, msg.Payload)
	default:
		slog.Warn("Outbound message with unknown scope dropped", "scope", msg.Metadata[metaScope])
	}
	return nil
}
