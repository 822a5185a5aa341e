package drivers

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db, ""), mock
}

func TestNewPostgresStore_DefaultTable(t *testing.T) {
	store, _ := newTestPostgresStore(t)
	assert.Equal(t, DefaultTable, store.table)
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_records WHERE key = $1")).
		WithArgs("espace_cours_session").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"user":{"id":"p1"}}`)))

	got, err := store.Get(context.Background(), "espace_cours_session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"p1"}}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectQuery("SELECT value FROM kv_records").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetError(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectQuery("SELECT value FROM kv_records").
		WillReturnError(errors.New("connection refused"))

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selecting record")
}

func TestPostgresStore_Set(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectExec("INSERT INTO kv_records .* ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs("k", `{"a":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(context.Background(), "k", []byte(`{"a":1}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetError(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectExec("INSERT INTO kv_records").
		WillReturnError(errors.New("disk full"))

	err := store.Set(context.Background(), "k", []byte(`1`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upserting record")
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newTestPostgresStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_records WHERE key IN ($1,$2)")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.Delete(context.Background(), "a", "b"))
	require.NoError(t, store.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	store, mock := newTestPostgresStore(t)
	mock.ExpectClose()

	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
