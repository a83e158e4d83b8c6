package port

import "context"

type IdempotencyRepository interface {
	// Claim reserves key for the caller. When the key is already taken it returns
	// claimed=false and the product id recorded by Complete, or 0 while the
	// first request is still in flight.
	Claim(ctx context.Context, key string) (claimed bool, productID int64, err error)

	// Complete records the product created under key
	Complete(ctx context.Context, key string, productID int64) error

	// Release drops a claim whose request failed, so a retry can claim it again
	Release(ctx context.Context, key string) error
}
