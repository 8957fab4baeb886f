// Package events defines the wire protocol spoken over each websocket
// connection: one JSON envelope per text frame, a tagged event name plus a
// typed payload. Inbound payloads are validated at this boundary so missing
// fields never propagate into broadcasts or persistence calls.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/schoolsync/relay/internal/domain"
)

// Inbound event names.
const (
	Authenticate    = "authenticate"
	JoinChannel     = "join-channel"
	LeaveChannel    = "leave-channel"
	JoinBlackboard  = "join-blackboard"
	LeaveBlackboard = "leave-blackboard"
	Drawing         = "blackboard-drawing"
	Commit          = "blackboard-updated"
	SendMessage     = "send-message"
	TypingStart     = "typing-start"
	TypingStop      = "typing-stop"
	AddReaction     = "add-reaction"
)

// Outbound event names.
const (
	UserJoined         = "user-joined"
	UserLeft           = "user-left"
	CollaboratorJoined = "collaborator-joined"
	CollaboratorLeft   = "collaborator-left"
	NewMessage         = "new-message"
	MessageError       = "message-error"
	UserTyping         = "user-typing"
	UserStoppedTyping  = "user-stopped-typing"
	ReactionAdded      = "reaction-added"
	UserDisconnected   = "user-disconnected"
	InvalidPayload     = "invalid-payload"
	// Drawing and Commit are echoed outbound under their inbound names.
)

// Envelope is the frame-level wrapper for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AuthenticatePayload binds an identity to the connection. The mapping is
// stored unconditionally; per-operation authorization happens later.
type AuthenticatePayload struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

type JoinChannelPayload struct {
	ChannelID string `json:"channelId" validate:"required"`
}

type LeaveChannelPayload struct {
	ChannelID string `json:"channelId" validate:"required"`
}

type JoinBlackboardPayload struct {
	BlackboardID string `json:"blackboardId" validate:"required"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
}

type LeaveBlackboardPayload struct {
	BlackboardID string `json:"blackboardId" validate:"required"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
}

// DrawingPayload is the low-latency live stroke path. Element internals are
// deliberately not validated; this is a verbatim rebroadcast.
type DrawingPayload struct {
	BlackboardID string               `json:"blackboardId" validate:"required"`
	Elements     []domain.DrawElement `json:"elements"`
	UserID       string               `json:"userId"`
	UserName     string               `json:"userName"`
}

// CommitPayload replaces the authoritative whiteboard snapshot.
type CommitPayload struct {
	BlackboardID string               `json:"blackboardId" validate:"required"`
	Elements     []domain.DrawElement `json:"elements"`
}

type SendMessagePayload struct {
	ChannelID string `json:"channelId" validate:"required"`
	Message   string `json:"message" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	UserToken string `json:"userToken" validate:"required"`
}

type TypingStartPayload struct {
	ChannelID string `json:"channelId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	UserName  string `json:"userName"`
}

type TypingStopPayload struct {
	ChannelID string `json:"channelId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

type AddReactionPayload struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
}

var validate = validator.New()

// DecodeEnvelope parses one inbound frame.
func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("missing event name")
	}
	return env, nil
}

// DecodePayload unmarshals an envelope's data into the given payload struct
// and validates its required fields.
func DecodePayload(env Envelope, payload any) error {
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return fmt.Errorf("malformed %s payload: %w", env.Event, err)
	}
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", env.Event, err)
	}
	return nil
}

// Marshal wraps an outbound payload in an envelope and encodes it.
func Marshal(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
