package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/relay/internal/session"
)

func TestAuthenticateStoresAndOverwrites(t *testing.T) {
	r := session.NewRegistry()

	r.Authenticate("conn-1", "u1", "Alice")
	s, ok := r.Lookup("conn-1")
	require.True(t, ok)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "Alice", s.UserName)

	// A repeated handshake overwrites unconditionally.
	r.Authenticate("conn-1", "u2", "Bob")
	s, ok = r.Lookup("conn-1")
	require.True(t, ok)
	assert.Equal(t, "u2", s.UserID)
	assert.Equal(t, "Bob", s.UserName)
	assert.Equal(t, 1, r.Count())
}

func TestLookupMissingConnection(t *testing.T) {
	r := session.NewRegistry()

	_, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	r := session.NewRegistry()

	r.Authenticate("conn-1", "u1", "Alice")
	r.Remove("conn-1")

	_, ok := r.Lookup("conn-1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())

	// Removing an unknown connection is a no-op.
	r.Remove("conn-1")
}
