// Package timeouts centralizes the deadlines handlers attach to storage
// calls, so individual handlers don't pick ad-hoc values.
package timeouts

import (
	"context"
	"time"
)

// Short is for single-document lookups and writes.
func Short() time.Duration { return 5 * time.Second }

// Long is for list queries and cascades.
func Long() time.Duration { return 15 * time.Second }

// WithShort derives a context with the short deadline.
func WithShort(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, Short())
}

// WithLong derives a context with the long deadline.
func WithLong(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, Long())
}
