package node

//go:generate mockgen -source=sink.go -destination=mock_sink.go -package=node

import (
	"context"

	"github.com/LeJamon/goPredictd/internal/core/tx"
)

// EventSink receives the events of every closed block.
type EventSink interface {
	Publish(ctx context.Context, height uint64, events []tx.Event) error
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, height uint64, events []tx.Event) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, height uint64, events []tx.Event) error {
	return f(ctx, height, events)
}
