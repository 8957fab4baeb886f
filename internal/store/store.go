// Package store defines the relay's persistence collaborators. The relay
// treats durable storage as opaque: it calls these interfaces and trusts the
// backing store to provide per-write atomicity. No multi-statement
// transactions span the two stores.
package store

import (
	"context"

	"github.com/schoolsync/relay/internal/domain"
)

// MessageStore persists chat messages and returns the denormalized saved
// record, including a snapshot of the sender's profile.
type MessageStore interface {
	InsertMessage(ctx context.Context, channelID, senderID, content string) (*domain.SavedMessage, error)
}

// WhiteboardStore persists whiteboard snapshots. UpsertWhiteboard replaces
// the full element sequence; the later of two racing writes wins outright.
type WhiteboardStore interface {
	UpsertWhiteboard(ctx context.Context, blackboardID string, elements []domain.DrawElement) error
	GetWhiteboard(ctx context.Context, blackboardID string) (*domain.WhiteboardState, error)
}
