// Package broker turns NATS JetStream's at-least-once publish/subscribe
// into the bounded, correlated request/reply calls the scheduler needs.
// Every request subscribes to its generated reply subject before
// publishing, acknowledges the single reply as soon as it arrives, and
// retries transient transport failures with a capped backoff.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultURL is used when NATS_URL is not set.
const DefaultURL = "nats://localhost:4222"

// URLFromEnv returns the broker URL from the environment.
func URLFromEnv() string {
	if url := os.Getenv("NATS_URL"); url != "" {
		return url
	}
	return DefaultURL
}

const (
	connectAttempts = 5
	connectBackoff  = time.Second
)

// Client multiplexes all of the orchestrator's in-flight requests over a
// single broker connection.
type Client struct {
	nc *nats.Conn
	js nats.JetStreamContext

	// Tunables for the request/reply loop; the zero Client is not usable,
	// use Connect or NewClient.
	publishRetries int
	waitRetries    int
	replyWait      time.Duration
}

// Connect dials the broker, retrying with linear backoff while it is
// still starting up.
func Connect(ctx context.Context, url string) (*Client, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		nc, err := nats.Connect(url, nats.Name("coursegen"))
		if err == nil {
			return NewClient(nc)
		}
		lastErr = err
		slog.Info("broker not reachable, retrying",
			"url", url, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}
	return nil, fmt.Errorf("connecting to broker %s: %w", url, lastErr)
}

// NewClient wraps an established connection.
func NewClient(nc *nats.Conn) (*Client, error) {
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("opening jetstream context: %w", err)
	}
	return &Client{
		nc:             nc,
		js:             js,
		publishRetries: 10,
		waitRetries:    10,
		replyWait:      5 * time.Minute,
	}, nil
}

// Close drains the connection. Safe to call more than once.
func (c *Client) Close() {
	if c.nc != nil && !c.nc.IsClosed() {
		c.nc.Close()
	}
}
