package broker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/coursegen/coursegen/api"
)

const (
	createAttempts = 5
	createBackoff  = time.Second
)

// EnsureStreams idempotently declares every work-queue stream the
// orchestrator and workers depend on. When force is set, pre-existing
// streams are deleted first so stale retention settings cannot survive a
// redeploy. A failure on one stream never prevents attempting the others;
// the combined error reports everything that went wrong.
func (c *Client) EnsureStreams(ctx context.Context, force bool) error {
	var errs []error
	for _, def := range api.Streams() {
		if err := c.ensureStream(ctx, def, force); err != nil {
			slog.Error("creating stream", "stream", def.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		slog.Info("stream ready", "stream", def.Name, "subjects", def.Subjects)
	}
	return errors.Join(errs...)
}

func (c *Client) ensureStream(ctx context.Context, def api.StreamDef, force bool) error {
	if force {
		if err := c.js.DeleteStream(def.Name); err != nil {
			if !errors.Is(err, nats.ErrStreamNotFound) {
				slog.Warn("force-deleting stream", "stream", def.Name, "err", err)
			}
		} else {
			slog.Debug("force-deleted stream", "stream", def.Name)
		}
	}
	var lastErr error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		if _, err := c.js.StreamInfo(def.Name); err == nil {
			// Already defined; matching definitions are success, not an
			// error. A mismatch will surface on first use.
			return nil
		} else if !errors.Is(err, nats.ErrStreamNotFound) {
			lastErr = err
		}
		_, err := c.js.AddStream(&nats.StreamConfig{
			Name:      def.Name,
			Subjects:  def.Subjects,
			Retention: nats.WorkQueuePolicy,
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return nil
		}
		lastErr = err
		slog.Info("stream creation failed, retrying",
			"stream", def.Name, "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * createBackoff):
		}
	}
	return lastErr
}
