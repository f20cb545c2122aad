package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"moneytracker/internal/amqp"
)

// Consumer delivers change events until ctx ends or the connection drops.
type Consumer interface {
	ConsumeChanges(ctx context.Context, handler func(context.Context, *amqp.ChangeEvent) error) error
}

// RunOptions tunes the reconnect loop. Zero values use the defaults.
type RunOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (o RunOptions) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if o.InitialInterval > 0 {
		b.InitialInterval = o.InitialInterval
	}
	if o.MaxInterval > 0 {
		b.MaxInterval = o.MaxInterval
	} else {
		b.MaxInterval = time.Minute
	}
	// Retry forever; only ctx stops the loop.
	b.MaxElapsedTime = 0
	return b
}

// Run consumes change events and hands them to w until ctx is cancelled.
// A consumer failure is retried with exponential backoff; the backoff resets
// once an event has been handled successfully.
func Run(ctx context.Context, consumer Consumer, w *MirrorWorker, opts RunOptions) error {
	b := opts.backOff()

	handler := func(ctx context.Context, ev *amqp.ChangeEvent) error {
		if err := w.Handle(ctx, ev); err != nil {
			return err
		}
		b.Reset()
		return nil
	}

	op := func() error {
		err := consumer.ConsumeChanges(ctx, handler)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = amqp.ErrConsumerClosed
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		slog.WarnContext(ctx, "Consumer stopped, reconnecting", "error", err, "retry_in", next)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
