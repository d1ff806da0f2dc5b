package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("category not found")

type Store interface {
	Insert(ctx context.Context, userID, nombre string) (*Category, error)
	ListByUser(ctx context.Context, userID string) ([]Category, error)
	Update(ctx context.Context, id, userID, nombre string) (*Category, error)
	Delete(ctx context.Context, id, userID string) error
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, userID, nombre string) (*Category, error) {
	var cat Category
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO categorias (user_id, nombre)
         VALUES ($1, $2)
         RETURNING id, user_id, nombre, created_at`,
		userID, nombre,
	).Scan(&cat.ID, &cat.UserID, &cat.Nombre, &cat.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Category, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, user_id, nombre, created_at
		 FROM categorias
		 WHERE user_id = $1
		 ORDER BY nombre ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Nombre, &cat.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id, userID, nombre string) (*Category, error) {
	var cat Category
	err := r.Pool.QueryRow(
		ctx,
		`UPDATE categorias
		 SET nombre = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, nombre, created_at`,
		id, userID, nombre,
	).Scan(&cat.ID, &cat.UserID, &cat.Nombre, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.Pool.Exec(
		ctx,
		`DELETE FROM categorias WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
