package history

import (
	"encoding/json"
	"time"
)

// Snapshot is a frozen month-end summary produced by an external job; this
// service only reads it.
type Snapshot struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	Mes           int             `db:"mes" json:"mes"`
	Anio          int             `db:"anio" json:"anio"`
	Salario       float64         `db:"salario" json:"salario"`
	TotalGastos   float64         `db:"total_gastos" json:"total_gastos"`
	SaldoRestante float64         `db:"saldo_restante" json:"saldo_restante"`
	Categorias    json.RawMessage `db:"categorias" json:"categorias"`
	Gastos        json.RawMessage `db:"gastos" json:"gastos"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// SnapshotSummary is the list projection; the embedded breakdowns are only
// returned by the detail endpoint.
type SnapshotSummary struct {
	ID            string    `db:"id" json:"id"`
	Mes           int       `db:"mes" json:"mes"`
	Anio          int       `db:"anio" json:"anio"`
	Salario       float64   `db:"salario" json:"salario"`
	TotalGastos   float64   `db:"total_gastos" json:"total_gastos"`
	SaldoRestante float64   `db:"saldo_restante" json:"saldo_restante"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
