package relay_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schoolsync/relay/internal/domain"
	"github.com/schoolsync/relay/internal/events"
	"github.com/schoolsync/relay/internal/hub"
	"github.com/schoolsync/relay/internal/pubsub"
	"github.com/schoolsync/relay/internal/relay"
	"github.com/schoolsync/relay/internal/rooms"
	"github.com/schoolsync/relay/internal/session"
)

// syncBus implements pubsub.Publisher and pubsub.Subscriber with synchronous
// in-order delivery, so tests observe effects immediately after a handler
// returns.
type syncBus struct {
	mu       sync.Mutex
	handlers map[string][]pubsub.Handler
}

func newSyncBus() *syncBus {
	return &syncBus{handlers: make(map[string][]pubsub.Handler)}
}

func (b *syncBus) Publish(ctx context.Context, msg pubsub.Message) error {
	b.mu.Lock()
	handlers := append([]pubsub.Handler(nil), b.handlers[msg.Topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *syncBus) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *syncBus) Close() error { return nil }

// stubVerifier resolves tokens from a fixed map.
type stubVerifier struct {
	principals map[string]string // token -> principal id
}

func (v *stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if principal, ok := v.principals[token]; ok {
		return principal, nil
	}
	return "", fmt.Errorf("unknown token")
}

type insertedMessage struct {
	channelID string
	senderID  string
	content   string
}

// stubMessageStore records inserts and returns denormalized records with
// deterministic ids.
type stubMessageStore struct {
	mu       sync.Mutex
	fail     bool
	inserted []insertedMessage
}

func (s *stubMessageStore) InsertMessage(ctx context.Context, channelID, senderID, content string) (*domain.SavedMessage, error) {
	if s.fail {
		return nil, fmt.Errorf("store unavailable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, insertedMessage{channelID, senderID, content})

	return &domain.SavedMessage{
		ID:         fmt.Sprintf("message:%d", len(s.inserted)),
		ChannelID:  channelID,
		SenderID:   senderID,
		Content:    content,
		SentAt:     time.Now().UTC(),
		SenderName: "Stub " + senderID,
	}, nil
}

// memWhiteboardStore keeps snapshots in memory with last-write-wins replace.
type memWhiteboardStore struct {
	mu     sync.Mutex
	fail   bool
	states map[string]domain.WhiteboardState
}

func newMemWhiteboardStore() *memWhiteboardStore {
	return &memWhiteboardStore{states: make(map[string]domain.WhiteboardState)}
}

func (s *memWhiteboardStore) UpsertWhiteboard(ctx context.Context, blackboardID string, elements []domain.DrawElement) error {
	if s.fail {
		return fmt.Errorf("store unavailable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[blackboardID] = domain.WhiteboardState{
		BlackboardID: blackboardID,
		Elements:     elements,
		UpdatedAt:    time.Now().UTC(),
	}
	return nil
}

func (s *memWhiteboardStore) GetWhiteboard(ctx context.Context, blackboardID string) (*domain.WhiteboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[blackboardID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// fixture wires a full relay with real registry, router, hub and dispatcher,
// and stubbed collaborators.
type fixture struct {
	sessions   *session.Registry
	router     *rooms.Router
	hub        *hub.Hub
	bus        *syncBus
	verifier   *stubVerifier
	messages   *stubMessageStore
	boards     *memWhiteboardStore
	chat       *relay.ChatRelay
	whiteboard *relay.WhiteboardSync
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		sessions: session.NewRegistry(),
		router:   rooms.NewRouter(),
		hub:      hub.New(),
		bus:      newSyncBus(),
		verifier: &stubVerifier{principals: map[string]string{}},
		messages: &stubMessageStore{},
		boards:   newMemWhiteboardStore(),
	}

	out := relay.NewBroadcaster(f.bus)
	f.chat = relay.NewChatRelay(f.sessions, f.router, f.verifier, f.messages, out)
	f.whiteboard = relay.NewWhiteboardSync(f.sessions, f.router, f.boards, out)

	dispatcher := relay.NewDispatcher(f.hub, f.router)
	require.NoError(t, dispatcher.Run(context.Background(), f.bus))

	return f
}

// connect registers a fake connection and returns its client, whose Send
// channel is the test's observation point.
func (f *fixture) connect(connID string) *hub.Client {
	client := hub.NewClient(connID, 32)
	f.hub.Add(client)
	return client
}

// disconnect mirrors the gateway's teardown order.
func (f *fixture) disconnect(connID string) {
	f.whiteboard.HandleDisconnect(connID)
	f.chat.HandleDisconnect(connID)
	f.hub.Remove(connID)
}

// recvEvent pops the next queued frame for the client and decodes it.
func recvEvent(t *testing.T, client *hub.Client) events.Envelope {
	t.Helper()

	select {
	case frame := <-client.Send:
		var env events.Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		return env
	default:
		t.Fatalf("expected an event for %s, got none", client.ID)
		return events.Envelope{}
	}
}

// requireNoEvent asserts the client's queue is empty.
func requireNoEvent(t *testing.T, client *hub.Client) {
	t.Helper()

	select {
	case frame := <-client.Send:
		t.Fatalf("expected no event for %s, got %s", client.ID, frame)
	default:
	}
}

// decodeData unmarshals an envelope's data into out.
func decodeData(t *testing.T, env events.Envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// drain discards everything currently queued for the client.
func drain(client *hub.Client) {
	for {
		select {
		case <-client.Send:
		default:
			return
		}
	}
}
