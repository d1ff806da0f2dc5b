package payslip

import "time"

// Document carries the payslip metadata; the PDF bytes live only in
// Content and are never serialized into list responses.
type Document struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Mes       int       `db:"mes" json:"mes"`
	Anio      int       `db:"anio" json:"anio"`
	Content   []byte    `db:"contenido" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
