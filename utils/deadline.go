package utils

import (
	"context"
	"time"
)

// Deadline picks the earlier of the context deadline and now+timeout.
// Zero timeout means "no timeout"; zero result means "no deadline at all".
func Deadline(ctx context.Context, timeout time.Duration) time.Time {
	var res time.Time
	if timeout > 0 {
		res = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (res.IsZero() || d.Before(res)) {
		res = d
	}
	return res
}
