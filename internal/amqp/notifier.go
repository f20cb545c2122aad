package amqp

import (
	"context"
	"log/slog"

	"moneytracker/internal/ledger"
)

// Publisher is the publishing side of Client.
type Publisher interface {
	PublishChange(ctx context.Context, ev ChangeEvent) error
}

// Notifier is a ledger hook announcing every commit. A nil publisher turns
// it into a no-op so the app runs without a broker.
type Notifier struct {
	pub Publisher
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) AfterCommit(ctx context.Context, c ledger.Commit) error {
	if n.pub == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping change event", "kind", c.Kind)
		return nil
	}
	ev := ChangeEvent{
		Kind:          c.Kind,
		TransactionID: c.TransactionID,
		Revision:      c.Revision,
		Timestamp:     c.At.UTC(),
	}
	return n.pub.PublishChange(ctx, ev)
}
