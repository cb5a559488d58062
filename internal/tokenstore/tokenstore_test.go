package tokenstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestStore_TokenLifecycle(t *testing.T) {
	s := setupTestStore(t)

	token, err := s.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SaveToken("tok-1"))
	token, err = s.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, s.SaveToken("tok-2"))
	token, err = s.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	require.NoError(t, s.ClearToken())
	_, ok, err := s.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearWithoutTokenIsNoop(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.ClearToken())
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flightdesk.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, New(db).SaveToken("durable"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	token, err := New(db).LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "durable", token)
}

func TestStore_SaveTokenError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO settings").
		WithArgs(TokenKey, "tok", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err = New(db).SaveToken("tok")

	assert.ErrorContains(t, err, `set setting "token"`)
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadTokenError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(TokenKey).
		WillReturnError(errors.New("database is locked"))

	_, err = New(db).LoadToken()

	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadTokenFromRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(TokenKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("from-row"))

	token, err := New(db).LoadToken()

	require.NoError(t, err)
	assert.Equal(t, "from-row", token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ClearTokenError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM settings").
		WithArgs(TokenKey).
		WillReturnError(errors.New("readonly database"))

	assert.ErrorContains(t, New(db).ClearToken(), "readonly database")
	assert.NoError(t, mock.ExpectationsWereMet())
}
