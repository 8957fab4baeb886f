package domain

import "time"

// SavedMessage is the denormalized chat record returned by the message store
// after a successful insert. It carries a snapshot of the sender's profile so
// clients can render without a second lookup. Immutable once saved.
type SavedMessage struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channelId"`
	SenderID     string    `json:"senderId"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sentAt"`
	SenderName   string    `json:"senderName,omitempty"`
	SenderAvatar string    `json:"senderAvatar,omitempty"`
	SenderRole   string    `json:"senderRole,omitempty"`
}
