package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSnapshot(t *testing.T, ws *websocket.Conn) guestbook.Message {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	var message guestbook.Message
	require.NoError(t, ws.ReadJSON(&message))
	return message
}

func TestStreamEntriesWebsocket(t *testing.T) {
	env := setupEnv(t, defaultInvitation)
	server := httptest.NewServer(env.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/entries/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	initial := readSnapshot(t, ws)
	assert.Equal(t, guestbook.MessageTypeSnapshot, initial.Type)
	assert.Empty(t, initial.Entries)

	entry, err := env.store.Append(context.Background(), guestbook.AppendRequest{AuthorName: "Yuna", Message: "Congrats!", DeletePassword: "1234"})
	require.NoError(t, err)

	update := readSnapshot(t, ws)
	assert.Greater(t, update.Revision, initial.Revision)
	require.Len(t, update.Entries, 1)
	assert.Equal(t, entry.ID, update.Entries[0].ID)

	require.Eventually(t, func() bool { return env.store.Stats().Subscribers == 1 }, time.Second, 10*time.Millisecond)

	// closing the socket releases the subscription
	require.NoError(t, ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second)))
	require.Eventually(t, func() bool { return env.store.Stats().Subscribers == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamEntriesSSE(t *testing.T) {
	env := setupEnv(t, defaultInvitation)
	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/entries/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, guestbook.Message) {
		var event string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:") && event == guestbook.MessageTypeSnapshot:
				var message guestbook.Message
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &message))
				return event, message
			}
		}
	}

	event, initial := readEvent()
	assert.Equal(t, guestbook.MessageTypeSnapshot, event)
	assert.Empty(t, initial.Entries)

	_, err = env.store.Append(context.Background(), guestbook.AppendRequest{AuthorName: "Jae", Message: "Best wishes", DeletePassword: "5678"})
	require.NoError(t, err)

	_, update := readEvent()
	require.Len(t, update.Entries, 1)
	assert.Equal(t, "Jae", update.Entries[0].AuthorName)

	cancel()
	require.Eventually(t, func() bool { return env.store.Stats().Subscribers == 0 }, 2*time.Second, 10*time.Millisecond)
}
