package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoplay/echoplay-backend/internal/modules/auth/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() { sqlxDB.Close() }
}

func TestCreate_Success(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		PasswordHash: "hash",
		FullName:     "Test User",
	}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, user.PasswordHash, user.FullName, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := NewUserRepository(db).Create(context.Background(), &domain.User{
		ID:    uuid.New(),
		Email: "dup@b.com",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestGetByEmail_Found(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at", "updated_at"}).
		AddRow(id, "a@b.com", "hash", "Test User", now, now)

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("A@B.com").
		WillReturnRows(rows)

	user, err := NewUserRepository(db).GetByEmail(context.Background(), "A@B.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestGetByEmail_NotFound(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\)`).
		WithArgs("nobody@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepository(db).GetByEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetByID_Found(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "created_at", "updated_at"}).
		AddRow(id, "a@b.com", "hash", "Test User", now, now)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	user, err := NewUserRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, closeFn := newMockDB(t)
	defer closeFn()

	id := uuid.New()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepository(db).GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
