package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

// namePrefix is written before every Key.Name so that the empty name maps
// to a non-empty bolt key and no two names share an encoding.
const namePrefix = 'k'

func boltName(name string) []byte {
	b := make([]byte, 0, len(name)+1)
	b = append(b, namePrefix)
	return append(b, name...)
}

func nameFromBolt(k []byte) string {
	return string(k[1:])
}

// BoltStore keeps each namespace in its own bucket of a BoltDB file.
type BoltStore struct {
	db *bolt.DB
	// tx is set for stores bound to a Batch.
	tx *bolt.Tx
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) view(fn func(tx *bolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.View(fn)
}

func (s *BoltStore) update(fn func(tx *bolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.Update(fn)
}

func (s *BoltStore) Get(_ context.Context, key Key) ([]byte, error) {
	var value []byte
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(key.Namespace))
		if b == nil {
			return nil
		}
		value = clone(b.Get(boltName(key.Name)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (s *BoltStore) Set(_ context.Context, key Key, value []byte) error {
	err := s.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(key.Namespace))
		if err != nil {
			return err
		}
		return b.Put(boltName(key.Name), clone(value))
	})
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Delete(_ context.Context, key Key) error {
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(key.Namespace))
		if b == nil {
			return nil
		}
		return b.Delete(boltName(key.Name))
	})
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (s *BoltStore) List(_ context.Context, namespace string) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			result[nameFromBolt(k)] = clone(v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list kv[%s]: %w", namespace, err)
	}
	return result, nil
}

func (s *BoltStore) Clear(_ context.Context) error {
	err := s.update(func(tx *bolt.Tx) error {
		var names [][]byte
		if err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, clone(name))
			return nil
		}); err != nil {
			return err
		}
		for _, n := range names {
			if err := tx.DeleteBucket(n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

// Batch runs fn inside a single bolt read-write transaction.
func (s *BoltStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(ctx, &BoltStore{db: s.db, tx: tx})
	})
}

func (s *BoltStore) Close() error {
	if s.tx != nil {
		return nil
	}
	return s.db.Close()
}
