package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/coursegen/coursegen/api"
)

// RequestSpec describes one correlated request: where it goes, where the
// reply comes back, and the JSON payload to send. The payload must embed
// the same reply subject so the worker knows where to answer.
type RequestSpec struct {
	Subject      string // worker request subject
	Stream       string // stream backing the request subject
	ReplySubject string
	ReplyStream  string // stream backing the reply subject
	Payload      any
}

// Requester is the single abstraction the operation layer talks to. The
// scheduler and operations never see NATS types directly, which keeps
// them testable against an in-process fake.
type Requester interface {
	// Request performs the full request/reply round trip and returns the
	// decoded result payload (base64 text for binary artifacts, raw text
	// otherwise). Worker-reported failures, protocol violations and
	// exhausted retries all surface as errors.
	Request(ctx context.Context, spec RequestSpec) (string, error)
}

// ErrNoReply is returned when the bounded wait loop around the reply
// subscription is exhausted without a message.
var ErrNoReply = errors.New("no reply received from worker")

// Request implements the subscribe-before-publish pattern:
//
//  1. bind an explicit-ack, max-deliver-1 consumer to the reply subject
//     so a fast worker cannot answer before anyone is listening,
//  2. publish the request with capped-backoff retries on transient errors,
//  3. wait for exactly one reply, retrying benign internal timeouts,
//  4. acknowledge before parsing so the broker never redelivers the reply
//     to another waiter,
//  5. decode the result-xor-error envelope.
func (c *Client) Request(ctx context.Context, spec RequestSpec) (string, error) {
	sub, err := c.js.SubscribeSync(
		spec.ReplySubject,
		nats.BindStream(spec.ReplyStream),
		nats.AckExplicit(),
		nats.MaxDeliver(1),
	)
	if err != nil {
		return "", fmt.Errorf("subscribing to reply subject %s: %w", spec.ReplySubject, err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.Debug("unsubscribe failed", "subject", spec.ReplySubject, "err", err)
		}
	}()
	if err := c.nc.FlushWithContext(ctx); err != nil {
		return "", fmt.Errorf("flushing reply subscription: %w", err)
	}

	if err := c.publish(ctx, spec); err != nil {
		return "", err
	}

	msg, err := c.awaitReply(ctx, sub, spec.ReplySubject)
	if err != nil {
		return "", err
	}
	// Ack before parsing: a malformed reply must still count as consumed.
	if err := msg.Ack(); err != nil {
		slog.Warn("acking reply failed", "subject", spec.ReplySubject, "err", err)
	}
	result, err := api.DecodeReply(msg.Data)
	if err != nil {
		return "", fmt.Errorf("reply on %s: %w", spec.ReplySubject, err)
	}
	return result, nil
}

func (c *Client) publish(ctx context.Context, spec RequestSpec) error {
	data, err := json.Marshal(spec.Payload)
	if err != nil {
		return fmt.Errorf("encoding request payload: %w", err)
	}
	var lastErr error
	for attempt := 0; attempt < c.publishRetries; attempt++ {
		_, err := c.js.Publish(spec.Subject, data, nats.ExpectStream(spec.Stream))
		if err == nil {
			slog.Debug("published request",
				"subject", spec.Subject, "stream", spec.Stream,
				"reply", spec.ReplySubject)
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			return fmt.Errorf("publishing to %s: %w", spec.Subject, err)
		}
		slog.Info("transient publish failure, retrying",
			"subject", spec.Subject, "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(publishBackoff(attempt)):
		}
	}
	return fmt.Errorf("publishing to %s after %d attempts: %w",
		spec.Subject, c.publishRetries, lastErr)
}

func publishBackoff(attempt int) time.Duration {
	backoff := time.Duration(attempt+1) * 200 * time.Millisecond
	if backoff > 2*time.Second {
		backoff = 2 * time.Second
	}
	return backoff
}

func isTransient(err error) bool {
	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoResponders) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, context.DeadlineExceeded)
}

// awaitReply waits for the single reply message. The per-attempt wait is
// deliberately generous: notebook execution runs arbitrary user code and
// there is no meaningful tighter bound. Benign timeouts are retried a
// fixed number of times rather than failing the operation outright, while
// cancellation of the parent context aborts the wait immediately.
func (c *Client) awaitReply(ctx context.Context, sub *nats.Subscription, subject string) (*nats.Msg, error) {
	for attempt := 0; attempt < c.waitRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.replyWait)
		msg, err := sub.NextMsgWithContext(attemptCtx)
		cancel()
		if err == nil {
			return msg, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
			slog.Debug("still waiting for reply", "subject", subject, "attempt", attempt+1)
			continue
		}
		return nil, fmt.Errorf("waiting for reply on %s: %w", subject, err)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoReply, subject)
}
