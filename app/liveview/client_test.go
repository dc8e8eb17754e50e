package liveview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *ClientSettings {
	return &ClientSettings{
		HandshakeTimeout: time.Second,
		ReconnectTimeout: 20 * time.Millisecond,
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     time.Second,
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestClientAppliesStreamAndReconnects(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		n := connections.Add(1)
		if n == 1 {
			_ = ws.WriteJSON(guestbook.NewSnapshotMessage(guestbook.Snapshot{Revision: 3, Entries: []guestbook.Entry{entry("E1", "Yuna")}}))
			_ = ws.WriteJSON(map[string]string{"type": "unknown"})
			// drop the connection to force a reconnect
			return
		}

		// a restarted server starts again from a lower revision
		_ = ws.WriteJSON(guestbook.NewSnapshotMessage(guestbook.Snapshot{Revision: 1, Entries: []guestbook.Entry{}}))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	renderer := &recordingRenderer{}
	view := NewView(renderer)
	client := NewClient(wsURL(server), view, testSettings())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	require.Eventually(t, func() bool {
		return connections.Load() >= 2 && view.Revision() == 1
	}, 3*time.Second, 10*time.Millisecond)

	assert.Empty(t, view.Entries())
	assert.GreaterOrEqual(t, renderer.count(), 2)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop after cancel")
	}
}

func TestClientSendsCloseOnCancel(t *testing.T) {
	closed := make(chan int, 1)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		_ = ws.WriteJSON(guestbook.NewSnapshotMessage(guestbook.Snapshot{Revision: 1, Entries: []guestbook.Entry{}}))

		_, _, err = ws.ReadMessage()
		if ce, ok := err.(*websocket.CloseError); ok {
			closed <- ce.Code
		}
	}))
	defer server.Close()

	view := NewView(&recordingRenderer{})
	client := NewClient(wsURL(server), view, testSettings())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	require.Eventually(t, func() bool { return view.Revision() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case code := <-closed:
		assert.Equal(t, websocket.CloseNormalClosure, code)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not observe a close frame")
	}
	<-done
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/api/entries/ws", false},
		{"https://wedding.example.com/", "wss://wedding.example.com/api/entries/ws", false},
		{"https://example.com/wedding", "wss://example.com/wedding/api/entries/ws", false},
		{"ftp://example.com", "", true},
	}

	for _, tc := range tests {
		got, err := StreamURL(tc.input)
		if tc.wantErr {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, got)
	}
}
