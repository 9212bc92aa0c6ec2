// Package storage is the only package that talks to the persistence medium.
// It exposes a namespaced key-value store with JSON codec on top of an
// injectable backing Medium.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded reports a write the medium refused for lack of space. The
// previously persisted state is left intact; callers may prompt the user to
// export or clear data.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Medium is the raw backing store. Writes are last-write-wins and atomic per
// key; nothing is atomic across keys.
type Medium interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
