// Package relay implements the event semantics of the collaboration relay:
// channel chat with per-message authorization, ephemeral presence and typing
// indicators, and whiteboard fan-out with last-write-wins snapshots.
package relay

import (
	"context"
	"log/slog"
	"strings"

	"github.com/schoolsync/relay/internal/auth"
	"github.com/schoolsync/relay/internal/events"
	"github.com/schoolsync/relay/internal/rooms"
	"github.com/schoolsync/relay/internal/session"
	"github.com/schoolsync/relay/internal/store"
)

// ChatRelay verifies, persists and fans out chat messages, and broadcasts
// ephemeral presence events for the channel namespace.
type ChatRelay struct {
	sessions *session.Registry
	router   *rooms.Router
	verifier auth.TokenVerifier
	messages store.MessageStore
	out      *Broadcaster
	logger   *slog.Logger
}

// NewChatRelay wires the chat relay's collaborators.
func NewChatRelay(sessions *session.Registry, router *rooms.Router, verifier auth.TokenVerifier, messages store.MessageStore, out *Broadcaster) *ChatRelay {
	return &ChatRelay{
		sessions: sessions,
		router:   router,
		verifier: verifier,
		messages: messages,
		out:      out,
		logger:   slog.Default().With("component", "chat"),
	}
}

type presencePayload struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

// HandleAuthenticate binds the declared identity to the connection. The
// mapping is stored unconditionally; every chat send is re-verified against
// its own token later.
func (r *ChatRelay) HandleAuthenticate(connID string, p events.AuthenticatePayload) {
	r.sessions.Authenticate(connID, p.UserID, p.UserName)
	r.logger.Debug("Session authenticated", "connID", connID, "userID", p.UserID)
}

// HandleJoinChannel adds the connection to the channel room and announces it
// to the other members. The joiner does not receive its own announcement.
func (r *ChatRelay) HandleJoinChannel(connID string, p events.JoinChannelPayload) {
	room := rooms.ChannelRoom(p.ChannelID)
	r.router.Join(connID, room)

	announce := presencePayload{ChannelID: p.ChannelID}
	if s, ok := r.sessions.Lookup(connID); ok {
		announce.UserID = s.UserID
		announce.UserName = s.UserName
	}
	r.out.ToRoom(room, connID, events.UserJoined, announce)
}

// HandleLeaveChannel removes the connection from the channel room and
// announces the departure to the remaining members.
func (r *ChatRelay) HandleLeaveChannel(connID string, p events.LeaveChannelPayload) {
	room := rooms.ChannelRoom(p.ChannelID)
	r.router.Leave(connID, room)

	announce := presencePayload{ChannelID: p.ChannelID}
	if s, ok := r.sessions.Lookup(connID); ok {
		announce.UserID = s.UserID
		announce.UserName = s.UserName
	}
	r.out.ToRoom(room, connID, events.UserLeft, announce)
}

type messageErrorPayload struct {
	Reason string `json:"reason"`
}

// HandleSendMessage runs the verify, persist, broadcast pipeline for one chat
// message. Each stage short-circuits with a sender-only message-error; only a
// fully successful send reaches the room. The relay applies no timeout: a
// hung collaborator call blocks this event's continuation and nothing else.
func (r *ChatRelay) HandleSendMessage(ctx context.Context, connID string, p events.SendMessagePayload) {
	principal, err := r.verifier.VerifyToken(ctx, p.UserToken)
	if err != nil || principal != p.UserID {
		if err != nil {
			r.logger.Warn("Token verification failed", "connID", connID, "error", err)
		} else {
			r.logger.Warn("Token subject does not match declared sender", "connID", connID, "declared", p.UserID)
		}
		r.out.ToConn(connID, events.MessageError, messageErrorPayload{Reason: "Unauthorized"})
		return
	}

	saved, err := r.messages.InsertMessage(ctx, p.ChannelID, p.UserID, strings.TrimSpace(p.Message))
	if err != nil {
		r.logger.Error("Failed to persist message", "connID", connID, "channelID", p.ChannelID, "error", err)
		r.out.ToConn(connID, events.MessageError, messageErrorPayload{Reason: "Failed to save message"})
		return
	}

	// Broadcast to every member including the sender, so all of one user's
	// open tabs converge on the canonical stored id and timestamp.
	r.out.ToRoom(rooms.ChannelRoom(p.ChannelID), "", events.NewMessage, saved)
}

// HandleTypingStart broadcasts the typing indicator to the other members of
// the channel. Nothing is persisted and nothing expires it; a client that
// disconnects mid-typing leaves observers with a stale indicator.
func (r *ChatRelay) HandleTypingStart(connID string, p events.TypingStartPayload) {
	r.out.ToRoom(rooms.ChannelRoom(p.ChannelID), connID, events.UserTyping, p)
}

// HandleTypingStop broadcasts the end of typing to the other members.
func (r *ChatRelay) HandleTypingStop(connID string, p events.TypingStopPayload) {
	r.out.ToRoom(rooms.ChannelRoom(p.ChannelID), connID, events.UserStoppedTyping, p)
}

// HandleAddReaction rebroadcasts a reaction verbatim. The payload carries no
// channel id, so the reaction goes to every connected client; receivers match
// it to a message by id.
func (r *ChatRelay) HandleAddReaction(connID string, p events.AddReactionPayload) {
	r.out.ToAll("", events.ReactionAdded, p)
}

// HandleDisconnect emits the single global disconnect notice. Channel rooms
// are deliberately not swept: membership of a departed connection lingers as
// a label and observers infer departure from this notice alone.
func (r *ChatRelay) HandleDisconnect(connID string) {
	notice := struct {
		UserID   string `json:"userId,omitempty"`
		UserName string `json:"userName,omitempty"`
	}{}
	if s, ok := r.sessions.Lookup(connID); ok {
		notice.UserID = s.UserID
		notice.UserName = s.UserName
	}
	r.out.ToAll(connID, events.UserDisconnected, notice)
	r.sessions.Remove(connID)
}
