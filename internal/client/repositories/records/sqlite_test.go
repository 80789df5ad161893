package records

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/quizkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_CreatesRecordsTable_Idempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db), "migrations must be idempotent")

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='records'`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, db.Close())

	// data survives reopen
	db, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(ctx, common.RecordVault, []byte("env")))
	v, err := r.Get(ctx, common.RecordVault)
	require.NoError(t, err)
	assert.Equal(t, []byte("env"), v)
}

func TestSQLite_SetGetUpsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestSQLite_GetAbsent_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLite_DeleteAndDeleteMany(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, k := range []string{common.RecordVault, common.RecordRemember, common.RecordDeviceKey} {
		require.NoError(t, r.Set(ctx, k, []byte(k)))
	}

	require.NoError(t, r.DeleteMany(ctx, common.RecordVault, common.RecordRemember))
	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{common.RecordDeviceKey: []byte(common.RecordDeviceKey)}, m)

	require.NoError(t, r.Delete(ctx, common.RecordDeviceKey))
	require.NoError(t, r.Delete(ctx, common.RecordDeviceKey), "delete is idempotent")

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSQLite_ClosedDB_WrapsStorageError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorIs(t, err, common.ErrStorage)
	require.Contains(t, err.Error(), "failed to get record[k]")

	require.ErrorIs(t, r.Set(ctx, "k", []byte("v")), common.ErrStorage)
	require.ErrorIs(t, r.Delete(ctx, "k"), common.ErrStorage)
	require.ErrorIs(t, r.DeleteMany(ctx, "k"), common.ErrStorage)
	require.ErrorIs(t, r.Clear(ctx), common.ErrStorage)
	_, err = r.List(ctx)
	require.ErrorIs(t, err, common.ErrStorage)
}

func TestSQLite_SetDriverError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	diskFull := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO records").WillReturnError(diskFull)

	r := NewSQLiteRepository(db)
	err = r.Set(context.Background(), common.RecordVault, []byte("env"))
	require.ErrorIs(t, err, common.ErrStorage)
	require.ErrorIs(t, err, diskFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_DeleteManyRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM records").WithArgs(common.RecordVault).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM records").WithArgs(common.RecordRemember).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	r := NewSQLiteRepository(db)
	err = r.DeleteMany(context.Background(), common.RecordVault, common.RecordRemember)
	require.ErrorIs(t, err, common.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}
