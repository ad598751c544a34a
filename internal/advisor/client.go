package advisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"cricket_go/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Client talks to the external trade-suggestion service over WebSocket. It
// is a black box to the exchange: callers hand it a snapshot taken by the
// sequencer and get back at most MaxSuggestions suggestions. It is never
// invoked inside the matching or simulation path, and every failure mode
// (dial, timeout, malformed response) degrades to an error the caller turns
// into an empty suggestion set.
type Client struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
}

// NewClient creates an advisor client for the given ws:// or wss:// URL.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:     url,
		timeout: timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

// Suggest sends the snapshot and reads back suggestions. One round trip per
// call; the connection is not kept alive between calls.
func (c *Client) Suggest(ctx context.Context, snap domain.ExchangeSnapshot) ([]Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, domain.NewNetworkError("dial", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, domain.NewNetworkError("write", err)
	}
	if err := conn.WriteJSON(buildRequest(snap)); err != nil {
		return nil, domain.NewNetworkError("write", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, domain.NewNetworkError("read", err)
	}
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		return nil, domain.NewNetworkError("read", err)
	}

	suggestions := make([]Suggestion, 0, MaxSuggestions)
	for _, s := range resp.Suggestions {
		if len(suggestions) == MaxSuggestions {
			slog.Warn("Advisor returned too many suggestions, truncating",
				slog.Int("got", len(resp.Suggestions)))
			break
		}
		if !s.Valid() {
			slog.Warn("Dropping malformed advisor suggestion",
				slog.String("market", s.Market),
				slog.Float64("confidence", s.Confidence))
			continue
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}
