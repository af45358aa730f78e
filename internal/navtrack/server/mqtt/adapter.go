package mqtt

import (
	"context"
	"fmt"

	"github.com/sfiharvest/navtrack/internal/pkg/metrics"
)

// HandlerFunc processes a raw payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// TypedHandlerFunc processes a decoded message.
type TypedHandlerFunc[T any] func(ctx context.Context, msg *T) error

// JSONAdapter decodes payloads with decode before handing them to handler.
// Payloads that fail to decode are counted as invalid.
func JSONAdapter[T any](decode func([]byte) (*T, error), handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		msg, err := decode(payload)
		if err != nil {
			metrics.MessagesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			return fmt.Errorf("json decode failed: %w", err)
		}

		return handler(ctx, msg)
	}
}
