package blob

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorage wraps every failure reported by a Store backend.
var ErrStorage = errors.New("blob storage failure")

// Store is an opaque key -> string store. Values are serialized by the caller.
// Get reports ok=false for a missing key; Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Wrap tags a backend error with ErrStorage, keeping the cause for logs.
func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %q: %v", ErrStorage, op, key, err)
}
