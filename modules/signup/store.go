package signup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formkit-dev/formkit/pkg/pg"
)

// User is a persisted account.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Store persists signups in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EmailTaken reports whether an account with the email already exists.
// Comparison is case-insensitive.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		email,
	).Scan(&taken)
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}
	return taken, nil
}

// CreateUser inserts a new account. A concurrent signup with the same email
// surfaces as ErrEmailTaken via the unique index.
func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, birthdate, avatar_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.Birthdate, user.AvatarURL,
	).Scan(&user.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKey(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, errors.Join(ErrStoreFailure, err)
	}
	return user, nil
}
