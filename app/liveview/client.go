package liveview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
)

type ClientSettings struct {
	HandshakeTimeout time.Duration
	ReconnectTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

func DefaultClientSettings() *ClientSettings {
	return &ClientSettings{
		HandshakeTimeout: 5 * time.Second,
		ReconnectTimeout: 5 * time.Second,
		ReadTimeout:      90 * time.Second,
		WriteTimeout:     5 * time.Second,
	}
}

// Client follows a remote guestbook over its websocket stream.
type Client struct {
	url      string
	view     *View
	settings *ClientSettings
	dialer   *websocket.Dialer
}

func NewClient(streamURL string, view *View, settings *ClientSettings) *Client {
	if settings == nil {
		settings = DefaultClientSettings()
	}
	return &Client{
		url:      streamURL,
		view:     view,
		settings: settings,
		dialer:   &websocket.Dialer{HandshakeTimeout: settings.HandshakeTimeout},
	}
}

// StreamURL turns the server base URL into its websocket stream URL.
func StreamURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/entries/ws"
	return u.String(), nil
}

// Run keeps the view connected until ctx is cancelled. Every connection
// starts from the fresh snapshot the server sends first.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("Stream disconnected", "url", c.url, "error", err, "retry_in", c.settings.ReconnectTimeout.String())

		timer := time.NewTimer(c.settings.ReconnectTimeout)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer ws.Close()

	slog.Debug("Stream connected", "url", c.url)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sessionCtx.Done()
		if ctx.Err() != nil {
			// tell the server we are leaving so it drops the subscription
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.settings.WriteTimeout))
		}
		ws.Close()
	}()

	ws.SetPingHandler(func(data string) error {
		ws.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		err := ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(c.settings.WriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	c.view.Reset()

	for {
		ws.SetReadDeadline(time.Now().Add(c.settings.ReadTimeout))
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var message guestbook.Message
		if err := json.Unmarshal(data, &message); err != nil {
			slog.Warn("Ignoring malformed stream message", "error", err)
			continue
		}
		if message.Type != guestbook.MessageTypeSnapshot {
			continue
		}

		if _, err := c.view.Apply(message.Snapshot); err != nil {
			return fmt.Errorf("failed to render snapshot: %w", err)
		}
	}
}
