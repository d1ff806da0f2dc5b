package history

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("snapshot not found")

type Store interface {
	ListByUser(ctx context.Context, userID string) ([]SnapshotSummary, error)
	Get(ctx context.Context, id, userID string) (*Snapshot, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]SnapshotSummary, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, mes, anio, salario, total_gastos, saldo_restante, created_at
		 FROM historicos
		 WHERE user_id = $1
		 ORDER BY anio DESC, mes DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SnapshotSummary, 0)
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(&s.ID, &s.Mes, &s.Anio, &s.Salario, &s.TotalGastos, &s.SaldoRestante, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id, userID string) (*Snapshot, error) {
	var s Snapshot
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, user_id, mes, anio, salario, total_gastos, saldo_restante, categorias, gastos, created_at
		 FROM historicos
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(
		&s.ID, &s.UserID, &s.Mes, &s.Anio, &s.Salario,
		&s.TotalGastos, &s.SaldoRestante, &s.Categorias, &s.Gastos, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
