package events

import "context"

// Noop is used when no brokers are configured; events are dropped.
type Noop struct{}

func (Noop) PublishEvent(ctx context.Context, topic, key string, event any) error { return nil }

func (Noop) Close() error { return nil }
