package kv

import (
	"context"
	"errors"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Key addresses one value in a Store.
type Key struct {
	Namespace string
	Name      string
}

func (k Key) String() string {
	if k.Name == "" {
		return k.Namespace
	}
	return k.Namespace + "/" + k.Name
}

type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
	// List returns every Name→value pair stored in namespace.
	List(ctx context.Context, namespace string) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// Batcher is implemented by stores able to apply several writes atomically.
// The Store passed to fn is only valid until fn returns.
type Batcher interface {
	Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Atomic runs fn inside s.Batch when s supports it, or directly against s.
func Atomic(ctx context.Context, s Store, fn func(ctx context.Context, s Store) error) error {
	if b, ok := s.(Batcher); ok {
		return b.Batch(ctx, fn)
	}
	return fn(ctx, s)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
