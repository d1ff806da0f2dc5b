package payslip

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("document not found")

type Store interface {
	Insert(ctx context.Context, userID string, mes, anio int, content []byte) (*Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Fetch(ctx context.Context, id, userID string) (*Document, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, userID string, mes, anio int, content []byte) (*Document, error) {
	var d Document
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO liquidaciones (user_id, mes, anio, contenido)
         VALUES ($1, $2, $3, $4)
         RETURNING id, user_id, mes, anio, created_at`,
		userID, mes, anio, content,
	).Scan(&d.ID, &d.UserID, &d.Mes, &d.Anio, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, user_id, mes, anio, created_at
		 FROM liquidaciones
		 WHERE user_id = $1
		 ORDER BY anio DESC, mes DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Mes, &d.Anio, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Fetch loads the full row including the PDF bytes. Only the download path
// calls it.
func (r *Repository) Fetch(ctx context.Context, id, userID string) (*Document, error) {
	var d Document
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, user_id, mes, anio, contenido, created_at
		 FROM liquidaciones
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&d.ID, &d.UserID, &d.Mes, &d.Anio, &d.Content, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
