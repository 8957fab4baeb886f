package store

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolsync/relay/internal/database"
	"github.com/schoolsync/relay/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealMessageStore implements MessageStore on SurrealDB.
type SurrealMessageStore struct {
	db *surrealdb.DB
}

// NewSurrealMessageStore creates a message store backed by the given
// connection.
func NewSurrealMessageStore(db *surrealdb.DB) *SurrealMessageStore {
	return &SurrealMessageStore{db: db}
}

type messageRecord struct {
	ID        string    `json:"id,omitempty"`
	ChannelID string    `json:"channel_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}

type profileRecord struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

// InsertMessage saves a chat message and returns the denormalized record.
// The content is stored as given; trimming is the caller's concern.
func (s *SurrealMessageStore) InsertMessage(ctx context.Context, channelID, senderID, content string) (*domain.SavedMessage, error) {
	query := "CREATE message SET channel_id = $channel_id, sender_id = $sender_id, content = $content, sent_at = time::now() RETURN AFTER"
	params := map[string]any{
		"channel_id": channelID,
		"sender_id":  senderID,
		"content":    content,
	}

	created, err := database.QueryOne[messageRecord](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("message was not created or could not be fetched")
	}

	saved := &domain.SavedMessage{
		ID:        created.ID,
		ChannelID: created.ChannelID,
		SenderID:  created.SenderID,
		Content:   created.Content,
		SentAt:    created.SentAt,
	}

	// Denormalize the sender profile onto the record. A missing profile is
	// not an error; the record simply goes out without those fields.
	profile, err := database.QueryOne[profileRecord](ctx, s.db,
		"SELECT name, avatar_url, role FROM type::thing('user', $id)",
		map[string]any{"id": senderID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sender profile: %w", err)
	}
	if profile != nil {
		saved.SenderName = profile.Name
		saved.SenderAvatar = profile.AvatarURL
		saved.SenderRole = profile.Role
	}

	return saved, nil
}

// SurrealWhiteboardStore implements WhiteboardStore on SurrealDB.
type SurrealWhiteboardStore struct {
	db *surrealdb.DB
}

// NewSurrealWhiteboardStore creates a whiteboard store backed by the given
// connection.
func NewSurrealWhiteboardStore(db *surrealdb.DB) *SurrealWhiteboardStore {
	return &SurrealWhiteboardStore{db: db}
}

type whiteboardRecord struct {
	Elements  []domain.DrawElement `json:"elements"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// UpsertWhiteboard replaces the stored element sequence for the blackboard.
func (s *SurrealWhiteboardStore) UpsertWhiteboard(ctx context.Context, blackboardID string, elements []domain.DrawElement) error {
	query := "UPSERT type::thing('whiteboard', $id) SET elements = $elements, updated_at = time::now()"
	params := map[string]any{
		"id":       blackboardID,
		"elements": elements,
	}

	if err := database.Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to upsert whiteboard %s: %w", blackboardID, err)
	}
	return nil
}

// GetWhiteboard fetches the current snapshot, or nil if none exists yet.
func (s *SurrealWhiteboardStore) GetWhiteboard(ctx context.Context, blackboardID string) (*domain.WhiteboardState, error) {
	query := "SELECT elements, updated_at FROM type::thing('whiteboard', $id)"
	record, err := database.QueryOne[whiteboardRecord](ctx, s.db, query, map[string]any{"id": blackboardID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch whiteboard %s: %w", blackboardID, err)
	}
	if record == nil {
		return nil, nil
	}

	return &domain.WhiteboardState{
		BlackboardID: blackboardID,
		Elements:     record.Elements,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}
