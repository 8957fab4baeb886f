package relay

import (
	"context"
	"log/slog"

	"github.com/schoolsync/relay/internal/events"
	"github.com/schoolsync/relay/internal/rooms"
	"github.com/schoolsync/relay/internal/session"
	"github.com/schoolsync/relay/internal/store"
)

// WhiteboardSync fans out live drawing deltas and persists committed
// whiteboard snapshots. Conflict policy is strict last-write-wins: the later
// persisted commit is what every subsequent broadcast reflects. No merge, no
// version vector; classroom whiteboards are low-concurrency by nature.
type WhiteboardSync struct {
	sessions    *session.Registry
	router      *rooms.Router
	whiteboards store.WhiteboardStore
	out         *Broadcaster
	logger      *slog.Logger
}

// NewWhiteboardSync wires the whiteboard engine's collaborators.
func NewWhiteboardSync(sessions *session.Registry, router *rooms.Router, whiteboards store.WhiteboardStore, out *Broadcaster) *WhiteboardSync {
	return &WhiteboardSync{
		sessions:    sessions,
		router:      router,
		whiteboards: whiteboards,
		out:         out,
		logger:      slog.Default().With("component", "whiteboard"),
	}
}

type collaboratorPayload struct {
	BlackboardID string `json:"blackboardId"`
	UserID       string `json:"userId,omitempty"`
	UserName     string `json:"userName,omitempty"`
}

func (w *WhiteboardSync) collaborator(connID, blackboardID, userID, userName string) collaboratorPayload {
	p := collaboratorPayload{BlackboardID: blackboardID, UserID: userID, UserName: userName}
	if p.UserID == "" {
		if s, ok := w.sessions.Lookup(connID); ok {
			p.UserID = s.UserID
			p.UserName = s.UserName
		}
	}
	return p
}

// HandleJoin adds the connection to the blackboard room and announces it to
// the other collaborators.
func (w *WhiteboardSync) HandleJoin(connID string, p events.JoinBlackboardPayload) {
	room := rooms.BlackboardRoom(p.BlackboardID)
	w.router.Join(connID, room)
	w.out.ToRoom(room, connID, events.CollaboratorJoined,
		w.collaborator(connID, p.BlackboardID, p.UserID, p.UserName))
}

// HandleLeave removes the connection from the blackboard room and announces
// the departure.
func (w *WhiteboardSync) HandleLeave(connID string, p events.LeaveBlackboardPayload) {
	room := rooms.BlackboardRoom(p.BlackboardID)
	w.router.Leave(connID, room)
	w.out.ToRoom(room, connID, events.CollaboratorLeft,
		w.collaborator(connID, p.BlackboardID, p.UserID, p.UserName))
}

// HandleDrawing is the fire-and-forget live stroke path: the full current
// element sequence is rebroadcast to every other member. No validation of
// element internals, no persistence, and the sender never receives its own
// emission back.
func (w *WhiteboardSync) HandleDrawing(connID string, p events.DrawingPayload) {
	w.out.ToRoom(rooms.BlackboardRoom(p.BlackboardID), connID, events.Drawing, p)
}

// HandleCommit upserts the full element sequence as the authoritative
// snapshot, then broadcasts it to every member including the committer so all
// optimistic local views converge. A failed upsert is logged and not
// broadcast; the committer gets no feedback, matching the platform clients'
// expectations.
func (w *WhiteboardSync) HandleCommit(ctx context.Context, connID string, p events.CommitPayload) {
	if err := w.whiteboards.UpsertWhiteboard(ctx, p.BlackboardID, p.Elements); err != nil {
		w.logger.Error("Failed to persist whiteboard commit", "connID", connID, "blackboardID", p.BlackboardID, "error", err)
		return
	}

	w.out.ToRoom(rooms.BlackboardRoom(p.BlackboardID), "", events.Commit, p)
}

// HandleDisconnect performs explicit leave semantics for every blackboard
// room the connection belongs to, announcing each departure while the
// session is still known. The channel namespace intentionally gets no such
// sweep.
func (w *WhiteboardSync) HandleDisconnect(connID string) {
	for _, room := range w.router.BlackboardRooms(connID) {
		w.router.Leave(connID, room)

		p := collaboratorPayload{BlackboardID: room[len(rooms.BlackboardPrefix):]}
		if s, ok := w.sessions.Lookup(connID); ok {
			p.UserID = s.UserID
			p.UserName = s.UserName
		}
		w.out.ToRoom(room, connID, events.CollaboratorLeft, p)
	}
}
