package goal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound             = errors.New("goal not found")
	ErrContributionNotFound = errors.New("contribution not found")
)

type Store interface {
	InsertGoal(ctx context.Context, userID, nombre string, objetivo float64) (*Goal, error)
	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	DeleteGoal(ctx context.Context, id, userID string) error
	RecordContribution(ctx context.Context, metaID, userID string, monto float64) (*Goal, error)
	ListContributions(ctx context.Context, metaID, userID string) ([]Contribution, error)
	RevertContribution(ctx context.Context, contribID, userID string) (*Goal, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) InsertGoal(ctx context.Context, userID, nombre string, objetivo float64) (*Goal, error) {
	var g Goal
	err := r.Pool.QueryRow(
		ctx,
		`INSERT INTO metas (user_id, nombre, monto_objetivo)
         VALUES ($1, $2, $3)
         RETURNING id, user_id, nombre, monto_objetivo, monto_acumulado, created_at`,
		userID, nombre, objetivo,
	).Scan(&g.ID, &g.UserID, &g.Nombre, &g.MontoObjetivo, &g.MontoAcumulado, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.Annotate()
	return &g, nil
}

func (r *Repository) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, user_id, nombre, monto_objetivo, monto_acumulado, created_at
		 FROM metas
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Goal, 0)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Nombre, &g.MontoObjetivo, &g.MontoAcumulado, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Annotate()
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGoal removes the goal; its contributions go with it via the FK
// cascade on aportes.meta_id.
func (r *Repository) DeleteGoal(ctx context.Context, id, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM metas WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordContribution writes the contribution row and applies its signed
// amount to the goal total in one transaction. The row lock keeps two
// concurrent aportes from interleaving between the history insert and the
// balance update.
func (r *Repository) RecordContribution(ctx context.Context, metaID, userID string, monto float64) (*Goal, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var lockedID string
	err = tx.QueryRow(
		ctx,
		`SELECT id FROM metas WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		metaID, userID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO aportes (meta_id, monto) VALUES ($1, $2)`,
		metaID, monto,
	); err != nil {
		return nil, err
	}

	var g Goal
	err = tx.QueryRow(
		ctx,
		`UPDATE metas
		 SET monto_acumulado = GREATEST(0, monto_acumulado + $2)
		 WHERE id = $1
		 RETURNING id, user_id, nombre, monto_objetivo, monto_acumulado, created_at`,
		metaID, monto,
	).Scan(&g.ID, &g.UserID, &g.Nombre, &g.MontoObjetivo, &g.MontoAcumulado, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	g.Annotate()
	return &g, nil
}

func (r *Repository) ListContributions(ctx context.Context, metaID, userID string) ([]Contribution, error) {
	// Ownership travels through the parent goal; a foreign meta_id reads as
	// absent rather than leaking another user's history.
	var owned string
	err := r.Pool.QueryRow(
		ctx,
		`SELECT id FROM metas WHERE id = $1 AND user_id = $2`,
		metaID, userID,
	).Scan(&owned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.Pool.Query(
		ctx,
		`SELECT id, meta_id, monto, created_at
		 FROM aportes
		 WHERE meta_id = $1
		 ORDER BY created_at DESC`,
		metaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Contribution, 0)
	for rows.Next() {
		var a Contribution
		if err := rows.Scan(&a.ID, &a.MetaID, &a.Monto, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RevertContribution subtracts the contribution's amount back from the goal
// (clamped at zero) and deletes the history row, atomically.
func (r *Repository) RevertContribution(ctx context.Context, contribID, userID string) (*Goal, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// FOR UPDATE without OF locks the aportes row as well as the meta, so a
	// concurrent revert of the same contribution re-evaluates the join after
	// this transaction commits and sees the row gone.
	var metaID string
	var monto float64
	err = tx.QueryRow(
		ctx,
		`SELECT a.meta_id, a.monto
		 FROM aportes a
		 JOIN metas m ON m.id = a.meta_id
		 WHERE a.id = $1 AND m.user_id = $2
		 FOR UPDATE`,
		contribID, userID,
	).Scan(&metaID, &monto)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContributionNotFound
		}
		return nil, err
	}

	// Delete first and bail if the row is already gone, otherwise a lost race
	// would subtract the amount a second time.
	tag, err := tx.Exec(ctx, `DELETE FROM aportes WHERE id = $1`, contribID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrContributionNotFound
	}

	var g Goal
	err = tx.QueryRow(
		ctx,
		`UPDATE metas
		 SET monto_acumulado = GREATEST(0, monto_acumulado - $2)
		 WHERE id = $1
		 RETURNING id, user_id, nombre, monto_objetivo, monto_acumulado, created_at`,
		metaID, monto,
	).Scan(&g.ID, &g.UserID, &g.Nombre, &g.MontoObjetivo, &g.MontoAcumulado, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	g.Annotate()
	return &g, nil
}
