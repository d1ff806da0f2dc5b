package budget

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("budget not found")

type Store interface {
	Upsert(ctx context.Context, userID string, salario float64, inicio, fin time.Time) (*Budget, error)
	GetCurrent(ctx context.Context, userID string) (*Budget, error)
	SumExpenses(ctx context.Context, userID string, inicio, fin time.Time) (float64, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

// Upsert keeps most-recent-row semantics: while a budget exists for the user
// that same row is overwritten, otherwise a new one is inserted.
func (r *Repository) Upsert(ctx context.Context, userID string, salario float64, inicio, fin time.Time) (*Budget, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currentID string
	err = tx.QueryRow(
		ctx,
		`SELECT id FROM presupuestos WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
		userID,
	).Scan(&currentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var b Budget
	if currentID != "" {
		err = tx.QueryRow(
			ctx,
			`UPDATE presupuestos
			 SET salario = $2, fecha_inicio = $3, fecha_fin = $4, created_at = NOW()
			 WHERE id = $1
			 RETURNING id, user_id, salario, fecha_inicio, fecha_fin, created_at`,
			currentID, salario, inicio, fin,
		).Scan(&b.ID, &b.UserID, &b.Salario, &b.FechaInicio, &b.FechaFin, &b.CreatedAt)
	} else {
		err = tx.QueryRow(
			ctx,
			`INSERT INTO presupuestos (user_id, salario, fecha_inicio, fecha_fin)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, user_id, salario, fecha_inicio, fecha_fin, created_at`,
			userID, salario, inicio, fin,
		).Scan(&b.ID, &b.UserID, &b.Salario, &b.FechaInicio, &b.FechaFin, &b.CreatedAt)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetCurrent(ctx context.Context, userID string) (*Budget, error) {
	var b Budget
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id, user_id, salario, fecha_inicio, fecha_fin, created_at
		 FROM presupuestos
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&b.ID, &b.UserID, &b.Salario, &b.FechaInicio, &b.FechaFin, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) SumExpenses(ctx context.Context, userID string, inicio, fin time.Time) (float64, error) {
	var total float64
	err := r.Pool.QueryRow(
		ctx,
		`SELECT COALESCE(SUM(monto), 0)
		 FROM gastos
		 WHERE user_id = $1
		   AND fecha::date BETWEEN $2::date AND $3::date`,
		userID, inicio, fin,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
