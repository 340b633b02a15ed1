package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentRepo(t *testing.T) (DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPostgresDocumentRepository(db), mock, func() { db.Close() }
}

func TestDocumentLoad(t *testing.T) {
	repo, mock, closeDB := newDocumentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT value, version FROM storage`).
		WithArgs("tm:players").
		WillReturnRows(sqlmock.NewRows([]string{"value", "version"}).AddRow([]byte(`[{"id":"p1"}]`), 7))

	doc, err := repo.Load(context.Background(), "tm:players")
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc.Version)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(doc.Value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentLoadNotFound(t *testing.T) {
	repo, mock, closeDB := newDocumentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT value, version FROM storage`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value", "version"}))

	_, err := repo.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentSaveBumpsVersion(t *testing.T) {
	repo, mock, closeDB := newDocumentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`INSERT INTO storage`).
		WithArgs("tm:players", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))

	version, err := repo.Save(context.Background(), "tm:players", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentCompareAndSaveStaleVersion(t *testing.T) {
	repo, mock, closeDB := newDocumentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`UPDATE storage`).
		WithArgs("tm:players", sqlmock.AnyArg(), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	_, err := repo.CompareAndSave(context.Background(), "tm:players", []string{"a"}, 3)
	assert.ErrorIs(t, err, ErrDocumentVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentCompareAndSaveFreshInsertRace(t *testing.T) {
	repo, mock, closeDB := newDocumentRepo(t)
	defer closeDB()

	// Expected version 0 means "key absent"; a concurrent insert makes
	// the ON CONFLICT DO NOTHING return no row.
	mock.ExpectQuery(`INSERT INTO storage`).
		WithArgs("tm:players", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	_, err := repo.CompareAndSave(context.Background(), "tm:players", []string{"a"}, 0)
	assert.ErrorIs(t, err, ErrDocumentVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
