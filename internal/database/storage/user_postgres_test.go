package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/UserApp/internal/domain"
	"github.com/GoArmGo/UserApp/internal/metrics"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*UserStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserStorage(sqlx.NewDb(db, "postgres"), logger), mock
}

func TestSave_AssignsReturnedID(t *testing.T) {
	s, mock := newTestStorage(t)
	id := uuid.New()
	phone := "123"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, email, phone) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs("Ana", "ana@x.com", "123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	user := &domain.User{Name: "Ana", Email: "ana@x.com", Phone: &phone}
	require.NoError(t, s.Save(context.Background(), user))

	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UniqueViolationIsEmailTaken(t *testing.T) {
	s, mock := newTestStorage(t)
	conflicts := metrics.StorageOperationsTotal.WithLabelValues("save", "sqlx", "conflict")
	before := testutil.ToFloat64(conflicts)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ana", "ana@x.com", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.Save(context.Background(), &domain.User{Name: "Ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, before+1, testutil.ToFloat64(conflicts))
}

func TestSave_OtherErrorIsWrapped(t *testing.T) {
	s, mock := newTestStorage(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(boom)

	err := s.Save(context.Background(), &domain.User{Name: "Ana", Email: "ana@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
}

func TestFindAll_MapsRows(t *testing.T) {
	s, mock := newTestStorage(t)
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, phone FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}).
			AddRow(id1.String(), "Ana", "ana@x.com", "123").
			AddRow(id2.String(), "Bob", "bob@x.com", nil))

	users, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, id1, users[0].ID)
	require.NotNil(t, users[0].Phone)
	assert.Equal(t, "123", *users[0].Phone)
	assert.Equal(t, id2, users[1].ID)
	assert.Nil(t, users[1].Phone)
}

func TestFindByID_Found(t *testing.T) {
	s, mock := newTestStorage(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, email, phone FROM users WHERE id = $1 LIMIT 1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}).
			AddRow(id.String(), "Ana", "ana@x.com", "123"))

	user, err := s.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)
}

func TestFindByID_MissingReturnsNil(t *testing.T) {
	s, mock := newTestStorage(t)
	id := uuid.New()
	notFound := metrics.StorageOperationsTotal.WithLabelValues("find_by_id", "sqlx", "not_found")
	before := testutil.ToFloat64(notFound)

	mock.ExpectQuery(`SELECT id, name, email, phone FROM users WHERE id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone"}))

	user, err := s.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, before+1, testutil.ToFloat64(notFound))
}

func TestDeleteByID_MissingIsNoOp(t *testing.T) {
	s, mock := newTestStorage(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.DeleteByID(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID_ErrorIsWrapped(t *testing.T) {
	s, mock := newTestStorage(t)
	boom := errors.New("connection refused")

	mock.ExpectExec(`DELETE FROM users`).WillReturnError(boom)

	err := s.DeleteByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestDeleteByID_RowsAffectedErrorIsLogged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var logs bytes.Buffer
	s := NewUserStorage(sqlx.NewDb(db, "postgres"), slog.New(slog.NewTextHandler(&logs, nil)))
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unsupported")))

	assert.NoError(t, s.DeleteByID(context.Background(), id))
	assert.Contains(t, logs.String(), "rows_affected_error")
	assert.Contains(t, logs.String(), "rows affected unsupported")
}
