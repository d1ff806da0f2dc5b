package category

import "time"

type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Nombre    string    `db:"nombre" json:"nombre"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type UpsertCategoryRequest struct {
	Nombre string `json:"nombre"`
}
