package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/form"
)

func receive(t *testing.T, conn *Connection) (Message, bool) {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		if !ok {
			return Message{}, false
		}
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg, true
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestHubBroadcastView(t *testing.T) {
	hub := NewHub(nil)
	a := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	b := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	other := &Connection{SessionID: "s2", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.BroadcastView("s1", form.View{Locale: "pt"})

	for _, conn := range []*Connection{a, b} {
		msg, ok := receive(t, conn)
		require.True(t, ok)
		assert.Equal(t, MsgView, msg.Type)
		var v form.View
		require.NoError(t, json.Unmarshal(msg.Payload, &v))
		assert.Equal(t, "pt", v.Locale)
	}
	assert.Empty(t, other.Send)
}

func TestHubSendToOneConnection(t *testing.T) {
	hub := NewHub(nil)
	a := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	b := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)

	hub.SendTo(a, MsgError, ErrorPayload{Error: "nope"})

	msg, ok := receive(t, a)
	require.True(t, ok)
	assert.Equal(t, MsgError, msg.Type)
	assert.JSONEq(t, `{"error":"nope"}`, string(msg.Payload))
	assert.Empty(t, b.Send)
}

func TestHubDisconnectSession(t *testing.T) {
	hub := NewHub(nil)
	a := &Connection{SessionID: "s1", Send: make(chan []byte, 4)}
	hub.Register(a)
	require.Equal(t, 1, hub.Connections("s1"))

	hub.DisconnectSession("s1")

	msg, ok := receive(t, a)
	require.True(t, ok)
	assert.Equal(t, MsgSessionEnded, msg.Type)
	_, ok = receive(t, a)
	assert.False(t, ok, "send channel is closed")
	assert.Equal(t, 0, hub.Connections("s1"))

	// unregistering an already dropped connection is a no-op
	hub.Unregister(a)
}
