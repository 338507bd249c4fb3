package ports

import "context"

// LoginLimiter throttles repeated login attempts per login name.
type LoginLimiter interface {
	// Allow records an attempt and reports whether it may proceed.
	Allow(ctx context.Context, login string) (bool, error)
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, login string) error
}
