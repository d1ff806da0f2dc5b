package expense

import "time"

type Expense struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Descripcion     string    `db:"descripcion" json:"descripcion"`
	Monto           float64   `db:"monto" json:"monto"`
	Fecha           time.Time `db:"fecha" json:"fecha"`
	CategoriaID     *string   `db:"categoria_id" json:"categoria_id,omitempty"`
	CategoriaNombre *string   `db:"categoria_nombre" json:"categoria_nombre,omitempty"`
	DocumentoID     *string   `db:"documento_id" json:"documento_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type UpsertExpenseRequest struct {
	Descripcion string  `json:"descripcion"`
	Monto       float64 `json:"monto"`
	Fecha       string  `json:"fecha"` // YYYY-MM-DD, empty = today
	CategoriaID *string `json:"categoria_id"`
	DocumentoID *string `json:"documento_id"`
}
