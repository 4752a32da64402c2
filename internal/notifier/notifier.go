package notifier

import "context"

// Notifier delivers a run summary to an external channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NoopNotifier is used when no notification channel is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Send(_ context.Context, _ string) error { return nil }
