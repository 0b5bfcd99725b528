package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
}

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreFromDB(db), mock
}

func TestPostgresWrite(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WithArgs("users", "u1", []byte(`{"id":"u1","phone":"256700111222"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Write(context.Background(), "users", "u1", testDoc{ID: "u1", Phone: "256700111222"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWrite_Error(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WillReturnError(errors.New("connection reset"))

	err := store.Write(context.Background(), "users", "u1", testDoc{ID: "u1"})
	assert.ErrorContains(t, err, "failed to write users/u1")
}

func TestPostgresRead(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("users", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"id":"u1","phone":"256700111222"}`)))

	var got testDoc
	require.NoError(t, store.Read(context.Background(), "users", "u1", &got))
	assert.Equal(t, "256700111222", got.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRead_NotFound(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents`)).
		WithArgs("users", "nobody").
		WillReturnError(sql.ErrNoRows)

	var got testDoc
	err := store.Read(context.Background(), "users", "nobody", &got)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestPostgresList(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 ORDER BY id`)).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"id":"u1","phone":"1"}`)).
			AddRow([]byte(`{"id":"u2","phone":"2"}`)))

	var got []testDoc
	require.NoError(t, store.List(context.Background(), "users", &got))
	assert.Equal(t, []testDoc{{ID: "u1", Phone: "1"}, {ID: "u2", Phone: "2"}}, got)
}

func TestPostgresList_Empty(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM documents`)).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	var got []testDoc
	require.NoError(t, store.List(context.Background(), "users", &got))
	assert.Empty(t, got)
}
