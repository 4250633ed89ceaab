package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/echoplay/echoplay-backend/internal/modules/auth/domain"
)

type PgUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates and returns a new PostgreSQL-based user repository.
func NewUserRepository(db *sqlx.DB) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Create inserts a new user record. Settings columns are left to their
// defaults (light theme, full volume, autoplay on). A unique violation on the
// email index is mapped to domain.ErrUserAlreadyExists.
func (r *PgUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, full_name, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :full_name, :created_at, :updated_at)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // Unique violation
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a user by email address. The comparison is
// case-insensitive to match the unique index on LOWER(email).
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1)`

	err := r.db.GetContext(ctx, user, query, email)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by their unique identifier.
func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
