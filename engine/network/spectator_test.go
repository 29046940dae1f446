package network

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func dialSpectator(t *testing.T, s *Spectator) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func frame(tick uint64, x float64) Frame {
	return Frame{
		Tick:    tick,
		Session: "test",
		Entities: []EntityState{
			{ID: 1, Visual: "hero", X: x, Y: 2, HP: 10, MaxHP: 10, Anim: "idle"},
		},
	}
}

func TestSpectatorBroadcast(t *testing.T) {
	s := NewSpectator(zaptest.NewLogger(t))
	conn := dialSpectator(t, s)

	sent, err := s.Broadcast(frame(1, 5))
	require.NoError(t, err)
	require.True(t, sent)

	var got Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, frame(1, 5), got)
}

func TestSpectatorSkipsUnchangedFrames(t *testing.T) {
	s := NewSpectator(nil)
	conn := dialSpectator(t, s)

	sent, err := s.Broadcast(frame(1, 5))
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = s.Broadcast(frame(2, 5))
	require.NoError(t, err)
	assert.False(t, sent, "same entity state")

	sent, err = s.Broadcast(frame(3, 6))
	require.NoError(t, err)
	assert.True(t, sent)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var first, second Frame
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, uint64(1), first.Tick)
	assert.Equal(t, uint64(3), second.Tick)
}

func TestSpectatorWithoutViewers(t *testing.T) {
	s := NewSpectator(nil)
	sent, err := s.Broadcast(frame(1, 0))
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestSpectatorDisconnect(t *testing.T) {
	s := NewSpectator(nil)
	conn := dialSpectator(t, s)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestSpectatorClose(t *testing.T) {
	s := NewSpectator(nil)
	conn := dialSpectator(t, s)

	s.Close()
	assert.Equal(t, 0, s.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "viewer is disconnected")
}
