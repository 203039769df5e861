package cache

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreWriteUpsertsTheSlot(t *testing.T) {
	store, mock := newMockedSQLiteStore(t)

	mock.ExpectExec("INSERT INTO slots").
		WithArgs(sampleSlotName, []byte("body")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Write(sampleSlotName, []byte("body")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreReadReturnsTheStoredBody(t *testing.T) {
	store, mock := newMockedSQLiteStore(t)

	mock.ExpectQuery("SELECT body FROM slots").
		WithArgs(sampleSlotName).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte("body")))

	data, err := store.Read(sampleSlotName)
	require.NoError(t, err)
	assert.Equal(t, []byte("body"), data)
}

func TestSQLiteStoreReadOfNeverWrittenSlotReturnsErrNotCached(t *testing.T) {
	store, mock := newMockedSQLiteStore(t)

	mock.ExpectQuery("SELECT body FROM slots").
		WithArgs(sampleSlotName).
		WillReturnError(sql.ErrNoRows)

	data, err := store.Read(sampleSlotName)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestSQLiteStoreReadFailurePropagates(t *testing.T) {
	store, mock := newMockedSQLiteStore(t)

	mock.ExpectQuery("SELECT body FROM slots").
		WithArgs(sampleSlotName).
		WillReturnError(errors.New("database is locked"))

	_, err := store.Read(sampleSlotName)
	assert.ErrorContains(t, err, "database is locked")
}

func TestSQLiteStoreIgnoresEmptySlot(t *testing.T) {
	store, mock := newMockedSQLiteStore(t)

	assert.NoError(t, store.Write("", []byte("ignored")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newMockedSQLiteStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewSQLiteStoreFromDB(db), mock
}
