package goal

import (
	"math"
	"time"
)

const (
	EstadoEnProgreso = "En progreso"
	EstadoCompletada = "Completada"
	EstadoSuperada   = "Superada"
)

type Goal struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Nombre         string    `db:"nombre" json:"nombre"`
	MontoObjetivo  float64   `db:"monto_objetivo" json:"monto_objetivo"`
	MontoAcumulado float64   `db:"monto_acumulado" json:"monto_acumulado"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Derived, never stored.
	Porcentaje int    `json:"porcentaje"`
	Estado     string `json:"estado"`
}

type Contribution struct {
	ID        string    `db:"id" json:"id"`
	MetaID    string    `db:"meta_id" json:"meta_id"`
	Monto     float64   `db:"monto" json:"monto"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateGoalRequest struct {
	Nombre        string  `json:"nombre"`
	MontoObjetivo float64 `json:"monto_objetivo"`
}

type CreateContributionRequest struct {
	MetaID string  `json:"meta_id"`
	Monto  float64 `json:"monto"`
}

// ClampApply applies a signed delta to a running total, floored at zero. A
// withdrawal can never push the accumulated amount negative.
func ClampApply(acumulado, delta float64) float64 {
	next := acumulado + delta
	if next < 0 {
		return 0
	}
	return next
}

// Percentage is capped at 100 even when the goal is exceeded.
func Percentage(acumulado, objetivo float64) int {
	if objetivo <= 0 {
		return 0
	}
	p := int(math.Round(100 * acumulado / objetivo))
	if p > 100 {
		return 100
	}
	return p
}

func Status(acumulado, objetivo float64) string {
	if acumulado > objetivo {
		return EstadoSuperada
	}
	if Percentage(acumulado, objetivo) >= 100 {
		return EstadoCompletada
	}
	return EstadoEnProgreso
}

// Annotate fills the derived fields from the stored amounts.
func (g *Goal) Annotate() {
	g.Porcentaje = Percentage(g.MontoAcumulado, g.MontoObjetivo)
	g.Estado = Status(g.MontoAcumulado, g.MontoObjetivo)
}
