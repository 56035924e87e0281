package utils

import (
	"context"
	"time"
)

// queryDeadline caps how long a single repository call may hold a
// connection.
const queryDeadline = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryDeadline)
}
