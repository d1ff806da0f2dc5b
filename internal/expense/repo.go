package expense

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("expense not found")

type Store interface {
	Insert(ctx context.Context, exp *Expense) (*Expense, error)
	ListByUser(ctx context.Context, userID string) ([]Expense, error)
	Update(ctx context.Context, exp *Expense) (*Expense, error)
	Delete(ctx context.Context, id, userID string) error
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const joinedSelect = `
	SELECT g.id, g.user_id, g.descripcion, g.monto, g.fecha,
	       g.categoria_id, c.nombre, g.documento_id, g.created_at
	FROM gastos g
	LEFT JOIN categorias c ON c.id = g.categoria_id`

// Insert writes the row and re-reads it joined with the category name inside
// one transaction, so the response always reflects what was committed.
func (r *Repository) Insert(ctx context.Context, exp *Expense) (*Expense, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(
		ctx,
		`INSERT INTO gastos (user_id, descripcion, monto, fecha, categoria_id, documento_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id`,
		exp.UserID, exp.Descripcion, exp.Monto, exp.Fecha, exp.CategoriaID, exp.DocumentoID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	out, err := scanOne(tx.QueryRow(ctx, joinedSelect+` WHERE g.id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Expense, error) {
	rows, err := r.Pool.Query(ctx, joinedSelect+`
		WHERE g.user_id = $1
		ORDER BY g.fecha DESC, g.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		var e Expense
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Descripcion, &e.Monto, &e.Fecha,
			&e.CategoriaID, &e.CategoriaNombre, &e.DocumentoID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, exp *Expense) (*Expense, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(
		ctx,
		`UPDATE gastos
		 SET descripcion = $3, monto = $4, fecha = $5, categoria_id = $6, documento_id = $7
		 WHERE id = $1 AND user_id = $2
		 RETURNING id`,
		exp.ID, exp.UserID, exp.Descripcion, exp.Monto, exp.Fecha, exp.CategoriaID, exp.DocumentoID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	out, err := scanOne(tx.QueryRow(ctx, joinedSelect+` WHERE g.id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM gastos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.Descripcion, &e.Monto, &e.Fecha,
		&e.CategoriaID, &e.CategoriaNombre, &e.DocumentoID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
