package budget

import "time"

type Budget struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Salario     float64   `db:"salario" json:"salario"`
	FechaInicio time.Time `db:"fecha_inicio" json:"fecha_inicio"`
	FechaFin    time.Time `db:"fecha_fin" json:"fecha_fin"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type UpsertBudgetRequest struct {
	Salario     float64 `json:"salario"`
	FechaInicio string  `json:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string  `json:"fecha_fin"`    // YYYY-MM-DD
}

type Balance struct {
	Salario       float64   `json:"salario"`
	TotalGastos   float64   `json:"total_gastos"`
	SaldoRestante float64   `json:"saldo_restante"`
	FechaInicio   time.Time `json:"fecha_inicio"`
	FechaFin      time.Time `json:"fecha_fin"`
}

// NewBalance derives the remaining balance for a budget. The result may go
// negative; overspending is reported, not clamped.
func NewBalance(b *Budget, totalGastos float64) Balance {
	return Balance{
		Salario:       b.Salario,
		TotalGastos:   totalGastos,
		SaldoRestante: b.Salario - totalGastos,
		FechaInicio:   b.FechaInicio,
		FechaFin:      b.FechaFin,
	}
}
