// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error once ctx is canceled or past its
// deadline, nil otherwise. Store and hub operations call it on entry.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
