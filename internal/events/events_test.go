package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/relay/internal/events"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := events.DecodeEnvelope([]byte(`{"event":"send-message","data":{"channelId":"general"}}`))
	require.NoError(t, err)
	assert.Equal(t, events.SendMessage, env.Event)
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	_, err := events.DecodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = events.DecodeEnvelope([]byte(`{"data":{}}`))
	assert.Error(t, err, "an envelope without an event name is rejected")
}

func TestDecodePayloadValidatesRequiredFields(t *testing.T) {
	env, err := events.DecodeEnvelope([]byte(`{"event":"send-message","data":{"channelId":"general","message":"hi"}}`))
	require.NoError(t, err)

	var p events.SendMessagePayload
	err = events.DecodePayload(env, &p)
	assert.Error(t, err, "userId and userToken are required")
}

func TestDecodePayloadComplete(t *testing.T) {
	env, err := events.DecodeEnvelope([]byte(`{"event":"send-message","data":{"channelId":"general","message":"hi","userId":"u1","userToken":"t"}}`))
	require.NoError(t, err)

	var p events.SendMessagePayload
	require.NoError(t, events.DecodePayload(env, &p))
	assert.Equal(t, "general", p.ChannelID)
	assert.Equal(t, "hi", p.Message)
}

func TestDecodePayloadOptionalIdentity(t *testing.T) {
	env, err := events.DecodeEnvelope([]byte(`{"event":"join-blackboard","data":{"blackboardId":"42"}}`))
	require.NoError(t, err)

	var p events.JoinBlackboardPayload
	require.NoError(t, events.DecodePayload(env, &p), "userId and userName are optional on blackboard joins")
	assert.Equal(t, "42", p.BlackboardID)
}

func TestMarshalRoundTrip(t *testing.T) {
	frame, err := events.Marshal(events.UserTyping, events.TypingStartPayload{
		ChannelID: "general",
		UserID:    "u1",
		UserName:  "Alice",
	})
	require.NoError(t, err)

	env, err := events.DecodeEnvelope(frame)
	require.NoError(t, err)
	assert.Equal(t, events.UserTyping, env.Event)

	var p events.TypingStartPayload
	require.NoError(t, events.DecodePayload(env, &p))
	assert.Equal(t, "Alice", p.UserName)
}
