package kv

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), mock
}

func TestSQLiteStore_GetQueriesCompositeKey(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT value FROM kv WHERE namespace = \? AND name = \?`).
		WithArgs("favorites", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("[]")))

	v, err := s.Get(context.Background(), Key{Namespace: "favorites", Name: "alice"})
	require.NoError(t, err)
	require.Equal(t, []byte("[]"), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_DriverErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	k := Key{Namespace: "favorites", Name: "alice"}
	diskErr := errors.New("disk I/O error")

	t.Run("get", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT value FROM kv`).WillReturnError(diskErr)

		v, err := s.Get(ctx, k)
		require.ErrorIs(t, err, diskErr)
		require.Nil(t, v)
		require.Contains(t, err.Error(), "failed to get kv[favorites/alice]")
	})

	t.Run("set", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO kv`).WithArgs("favorites", "alice", []byte("[]")).WillReturnError(diskErr)

		err := s.Set(ctx, k, []byte("[]"))
		require.ErrorIs(t, err, diskErr)
		require.Contains(t, err.Error(), "failed to set kv[favorites/alice]")
	})

	t.Run("delete", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM kv WHERE`).WillReturnError(diskErr)

		err := s.Delete(ctx, k)
		require.ErrorIs(t, err, diskErr)
		require.Contains(t, err.Error(), "failed to delete kv[favorites/alice]")
	})

	t.Run("clear", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM kv`).WillReturnError(diskErr)

		err := s.Clear(ctx)
		require.ErrorIs(t, err, diskErr)
		require.Contains(t, err.Error(), "failed to clear kv")
	})

	t.Run("list", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT name, value FROM kv`).WillReturnError(diskErr)

		_, err := s.List(ctx, "favorites")
		require.ErrorIs(t, err, diskErr)
		require.Contains(t, err.Error(), "failed to list kv[favorites]")
	})
}

func TestSQLiteStore_BatchRollsBackOnCommitPathError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO kv`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	err := s.Batch(context.Background(), func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.Set(ctx, Key{Namespace: "password", Name: "alice"}, []byte("x")))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_BatchRollsBackOnPanic(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = s.Batch(context.Background(), func(ctx context.Context, tx Store) error {
		panic("kaput")
	})
}

func TestSQLiteStore_BeginError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := s.Batch(context.Background(), func(ctx context.Context, tx Store) error { return nil })
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestSQLiteStore_ClosedDatabaseFails(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(ctx, Key{Namespace: "user"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get kv[user]")
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	require.Equal(t, 1, n)
}
