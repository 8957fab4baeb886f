// Package rooms tracks which connections belong to which broadcast groups.
// A room is a lazily materialized label, not an owned object: it springs into
// existence on first join and is never explicitly destroyed when membership
// reaches zero.
package rooms

import (
	"strings"
	"sync"
)

// Room name prefixes for the two independent namespaces.
const (
	ChannelPrefix    = "channel-"
	BlackboardPrefix = "blackboard-"
)

// ChannelRoom builds the room name for a chat channel.
func ChannelRoom(channelID string) string {
	return ChannelPrefix + channelID
}

// BlackboardRoom builds the room name for a whiteboard.
func BlackboardRoom(blackboardID string) string {
	return BlackboardPrefix + blackboardID
}

// Router tracks room membership. A connection may belong to many rooms of
// either kind simultaneously.
type Router struct {
	mu      sync.RWMutex
	members map[string]map[string]bool // room -> set of connIDs
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		members: make(map[string]map[string]bool),
	}
}

// Join adds the connection to the room and returns the other members present
// at call time, so callers can broadcast a joined event that excludes the
// joiner.
func (r *Router) Join(connID, room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[room] == nil {
		r.members[room] = make(map[string]bool)
	}

	others := make([]string, 0, len(r.members[room]))
	for id := range r.members[room] {
		if id != connID {
			others = append(others, id)
		}
	}

	r.members[room][connID] = true
	return others
}

// Leave removes the connection from the room and returns the remaining
// members. Leaving a room the connection never joined is a no-op.
func (r *Router) Leave(connID, room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[room]
	if !ok {
		return nil
	}
	delete(set, connID)

	remaining := make([]string, 0, len(set))
	for id := range set {
		remaining = append(remaining, id)
	}
	return remaining
}

// Members returns the current members of a room.
func (r *Router) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.members[room]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// BlackboardRooms returns every blackboard room the connection currently
// belongs to. Disconnect handling leaves these explicitly; channel rooms get
// no such sweep, their departure is only ever inferred from the global
// disconnect notice.
func (r *Router) BlackboardRooms(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for room, set := range r.members {
		if strings.HasPrefix(room, BlackboardPrefix) && set[connID] {
			out = append(out, room)
		}
	}
	return out
}

// InRoom reports whether the connection is currently a member of the room.
func (r *Router) InRoom(connID, room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.members[room][connID]
}
