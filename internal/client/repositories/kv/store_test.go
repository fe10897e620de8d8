package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		DriverMemory: func(t *testing.T) Store {
			return NewMemoryStore()
		},
		DriverSQLite: func(t *testing.T) Store {
			s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		DriverBolt: func(t *testing.T) Store {
			s, err := Open(context.Background(), DriverBolt, filepath.Join(t.TempDir(), "kv.bolt"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestStore_SetThenGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		k := Key{Namespace: "favorites", Name: "alice"}

		require.NoError(t, s.Set(ctx, k, []byte(`[{"cca3":"IND"}]`)))

		v, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"cca3":"IND"}]`), v)
	})
}

func TestStore_GetAbsentReturnsNilNil(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		v, err := s.Get(context.Background(), Key{Namespace: "password", Name: "nobody"})
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestStore_EmptyNameIsAValidKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		k := Key{Namespace: "user"}

		require.NoError(t, s.Set(ctx, k, []byte(`{"username":"alice"}`)))
		v, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"username":"alice"}`), v)

		m, err := s.List(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"": []byte(`{"username":"alice"}`)}, m)
	})
}

func TestStore_NULNameDiffersFromEmptyName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		empty := Key{Namespace: "favorites"}
		nul := Key{Namespace: "favorites", Name: "\x00"}

		require.NoError(t, s.Set(ctx, empty, []byte("empty")))
		require.NoError(t, s.Set(ctx, nul, []byte("nul")))

		v, err := s.Get(ctx, empty)
		require.NoError(t, err)
		assert.Equal(t, []byte("empty"), v)
		v, err = s.Get(ctx, nul)
		require.NoError(t, err)
		assert.Equal(t, []byte("nul"), v)

		m, err := s.List(ctx, "favorites")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"": []byte("empty"), "\x00": []byte("nul")}, m)

		require.NoError(t, s.Delete(ctx, nul))
		v, err = s.Get(ctx, empty)
		require.NoError(t, err)
		assert.Equal(t, []byte("empty"), v)
	})
}

func TestStore_UpsertOverwritesValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		k := Key{Namespace: "password", Name: "alice"}

		require.NoError(t, s.Set(ctx, k, []byte("old")))
		require.NoError(t, s.Set(ctx, k, []byte("new")))

		v, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})
}

func TestStore_NamespacesAndNamesAreIsolated(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, Key{Namespace: "favorites", Name: "alice"}, []byte("A")))
		require.NoError(t, s.Set(ctx, Key{Namespace: "favorites", Name: "bob"}, []byte("B")))
		require.NoError(t, s.Set(ctx, Key{Namespace: "password", Name: "alice"}, []byte("P")))

		m, err := s.List(ctx, "favorites")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"alice": []byte("A"), "bob": []byte("B")}, m)

		v, err := s.Get(ctx, Key{Namespace: "password", Name: "bob"})
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestStore_DeleteRemovesKeyAndIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		k := Key{Namespace: "user"}

		require.NoError(t, s.Set(ctx, k, []byte{0x01}))
		require.NoError(t, s.Delete(ctx, k))

		v, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, s.Delete(ctx, k))
		require.NoError(t, s.Delete(ctx, Key{Namespace: "never-created", Name: "x"}))
	})
}

func TestStore_ClearRemovesAllKeys(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, Key{Namespace: "a", Name: "1"}, []byte{1}))
		require.NoError(t, s.Set(ctx, Key{Namespace: "b", Name: "2"}, []byte{2}))
		require.NoError(t, s.Clear(ctx))

		for _, ns := range []string{"a", "b"} {
			m, err := s.List(ctx, ns)
			require.NoError(t, err)
			assert.Empty(t, m)
		}
	})
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		k := Key{Namespace: "n", Name: "k"}

		in := []byte("abc")
		require.NoError(t, s.Set(ctx, k, in))
		in[0] = 'X'

		out, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)

		out[0] = 'Y'
		again, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		err := Atomic(ctx, s, func(ctx context.Context, tx Store) error {
			if err := tx.Set(ctx, Key{Namespace: "password", Name: "alice"}, []byte("secret1")); err != nil {
				return err
			}
			return tx.Set(ctx, Key{Namespace: "favorites", Name: "alice"}, []byte("[]"))
		})
		require.NoError(t, err)

		v, err := s.Get(ctx, Key{Namespace: "favorites", Name: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), v)
	})
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		boom := errors.New("boom")

		err := Atomic(ctx, s, func(ctx context.Context, tx Store) error {
			require.NoError(t, tx.Set(ctx, Key{Namespace: "password", Name: "alice"}, []byte("secret1")))
			return boom
		})
		require.ErrorIs(t, err, boom)

		v, err := s.Get(ctx, Key{Namespace: "password", Name: "alice"})
		require.NoError(t, err)
		assert.Nil(t, v, "batch must not leave partial writes")
	})
}

func TestAtomic_ReadsOwnWritesInsideBatch(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		err := Atomic(ctx, s, func(ctx context.Context, tx Store) error {
			if err := tx.Set(ctx, Key{Namespace: "n", Name: "k"}, []byte("v")); err != nil {
				return err
			}
			v, err := tx.Get(ctx, Key{Namespace: "n", Name: "k"})
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("v"), v)
			return nil
		})
		require.NoError(t, err)
	})
}

// plainStore exposes only the Store methods of the wrapped store.
type plainStore struct{ Store }

func TestAtomic_FallsBackWithoutBatcher(t *testing.T) {
	s := plainStore{NewMemoryStore()}
	ctx := context.Background()

	_, isBatcher := any(s).(Batcher)
	require.False(t, isBatcher)

	err := Atomic(ctx, s, func(ctx context.Context, tx Store) error {
		return tx.Set(ctx, Key{Namespace: "n", Name: "k"}, []byte("v"))
	})
	require.NoError(t, err)

	v, err := s.Get(ctx, Key{Namespace: "n", Name: "k"})
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverBolt} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", "store.db")

			s, err := Open(ctx, driver, path)
			require.NoError(t, err)
			require.NoError(t, s.Set(ctx, Key{Namespace: "favorites", Name: "alice"}, []byte("[1]")))
			require.NoError(t, s.Close())

			s, err = Open(ctx, driver, path)
			require.NoError(t, err)
			defer s.Close()

			v, err := s.Get(ctx, Key{Namespace: "favorites", Name: "alice"})
			require.NoError(t, err)
			assert.Equal(t, []byte("[1]"), v)
		})
	}
}

func TestOpen_SQLiteFileDSNCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	s, err := Open(ctx, DriverSQLite, "file:"+path+"?cache=shared")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, Key{Namespace: "user"}, []byte("{}")))
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat("file:")
	assert.True(t, os.IsNotExist(err))
}

func TestIsSQLiteMemoryDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{":memory:", true},
		{"file::memory:?mode=memory&cache=shared", true},
		{"file:test.db?mode=memory", true},
		{"file:/tmp/store.db", false},
		{"file:store.db?cache=shared", false},
		{"/var/lib/store.db", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, isSQLiteMemoryDSN(tt.dsn))
		})
	}
}

func TestSQLiteFilePath(t *testing.T) {
	assert.Equal(t, "/tmp/store.db", sqliteFilePath("file:/tmp/store.db?cache=shared"))
	assert.Equal(t, "store.db", sqliteFilePath("file:store.db"))
	assert.Equal(t, "/tmp/store.db", sqliteFilePath("/tmp/store.db"))
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "user", Key{Namespace: "user"}.String())
	assert.Equal(t, "favorites/alice", Key{Namespace: "favorites", Name: "alice"}.String())
}
