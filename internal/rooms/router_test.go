package rooms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolsync/relay/internal/rooms"
)

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "channel-general", rooms.ChannelRoom("general"))
	assert.Equal(t, "blackboard-42", rooms.BlackboardRoom("42"))
}

func TestJoinReturnsOthersAtCallTime(t *testing.T) {
	r := rooms.NewRouter()

	others := r.Join("conn-a", "channel-general")
	assert.Empty(t, others, "first joiner sees nobody")

	others = r.Join("conn-b", "channel-general")
	assert.Equal(t, []string{"conn-a"}, others)

	// Rejoining is idempotent and still excludes the joiner.
	others = r.Join("conn-b", "channel-general")
	assert.Equal(t, []string{"conn-a"}, others)

	assert.ElementsMatch(t, []string{"conn-a", "conn-b"}, r.Members("channel-general"))
}

func TestLeave(t *testing.T) {
	r := rooms.NewRouter()
	r.Join("conn-a", "channel-general")
	r.Join("conn-b", "channel-general")

	remaining := r.Leave("conn-a", "channel-general")
	assert.Equal(t, []string{"conn-b"}, remaining)
	assert.False(t, r.InRoom("conn-a", "channel-general"))

	// Leaving a room never joined is a no-op.
	assert.Nil(t, r.Leave("conn-a", "channel-other"))
}

func TestRoomIsNeverDestroyed(t *testing.T) {
	r := rooms.NewRouter()
	r.Join("conn-a", "channel-general")
	r.Leave("conn-a", "channel-general")

	// An empty room is just a label; joining again works as if nothing
	// happened.
	assert.Empty(t, r.Members("channel-general"))
	assert.Empty(t, r.Join("conn-b", "channel-general"))
	assert.True(t, r.InRoom("conn-b", "channel-general"))
}

func TestConnectionCanBelongToManyRooms(t *testing.T) {
	r := rooms.NewRouter()
	r.Join("conn-a", "channel-general")
	r.Join("conn-a", "channel-random")
	r.Join("conn-a", "blackboard-42")
	r.Join("conn-a", "blackboard-7")

	assert.True(t, r.InRoom("conn-a", "channel-general"))
	assert.True(t, r.InRoom("conn-a", "blackboard-7"))

	// Only blackboard rooms are reported for the disconnect sweep.
	assert.ElementsMatch(t, []string{"blackboard-42", "blackboard-7"}, r.BlackboardRooms("conn-a"))
}
