package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the persistence surface the handler needs; the pg Repository
// implements it and tests swap in a fake.
type Store interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id string) error
	SetTemporaryPassword(ctx context.Context, id, hash string) error
	SetPassword(ctx context.Context, id, hash string) error
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) CreateUser(ctx context.Context, u *User) (*User, error) {
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO usuarios (nombre, apellido, email, password_hash)
         VALUES ($1, $2, $3, $4)
         RETURNING id, created_at`,
		u.Nombre, u.Apellido, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, nombre, apellido, email, password_hash, must_change_password, verified, created_at, last_login_at
		 FROM usuarios
		 WHERE email = $1`,
		email,
	).Scan(
		&u.ID,
		&u.Nombre,
		&u.Apellido,
		&u.Email,
		&u.PasswordHash,
		&u.MustChangePassword,
		&u.Verified,
		&u.CreatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.Pool.Exec(ctx, `UPDATE usuarios SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *Repository) SetTemporaryPassword(ctx context.Context, id, hash string) error {
	_, err := r.Pool.Exec(
		ctx,
		`UPDATE usuarios SET password_hash = $2, must_change_password = TRUE WHERE id = $1`,
		id, hash,
	)
	return err
}

func (r *Repository) SetPassword(ctx context.Context, id, hash string) error {
	_, err := r.Pool.Exec(
		ctx,
		`UPDATE usuarios SET password_hash = $2, must_change_password = FALSE WHERE id = $1`,
		id, hash,
	)
	return err
}
