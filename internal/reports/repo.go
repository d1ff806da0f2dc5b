package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MonthTotal struct {
	Mes   string  `db:"mes" json:"mes"` // YYYY-MM
	Total float64 `db:"total" json:"total"`
}

type Store interface {
	ExpensesByMonth(ctx context.Context, userID string) ([]MonthTotal, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) ExpensesByMonth(ctx context.Context, userID string) ([]MonthTotal, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT to_char(date_trunc('month', fecha), 'YYYY-MM') AS mes,
		        SUM(monto)::float8 AS total
		 FROM gastos
		 WHERE user_id = $1
		 GROUP BY 1
		 ORDER BY 1 ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MonthTotal, 0)
	for rows.Next() {
		var m MonthTotal
		if err := rows.Scan(&m.Mes, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
