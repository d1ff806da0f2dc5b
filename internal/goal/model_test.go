package goal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampApplySequences(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{"single deposit", []float64{200}, 200},
		{"deposit then overdraw clamps to zero", []float64{200, -500}, 0},
		{"clamp is not a debt", []float64{200, -500, 100}, 100},
		{"withdraw from empty stays zero", []float64{-50}, 0},
		{"mixed signs", []float64{100, -30, -30, -30, -30}, 0},
		{"exceeding target is allowed", []float64{600}, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc float64
			for _, d := range tt.deltas {
				acc = ClampApply(acc, d)
				assert.GreaterOrEqual(t, acc, 0.0)
			}
			assert.Equal(t, tt.want, acc)
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		acumulado float64
		objetivo  float64
		want      int
	}{
		{"zero progress", 0, 500, 0},
		{"partial", 200, 500, 40},
		{"rounds", 333, 1000, 33},
		{"rounds up", 335, 1000, 34},
		{"exact", 500, 500, 100},
		{"capped at 100", 600, 500, 100},
		{"zero target guards division", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.acumulado, tt.objetivo))
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, EstadoEnProgreso, Status(200, 500))
	assert.Equal(t, EstadoCompletada, Status(500, 500))
	assert.Equal(t, EstadoSuperada, Status(600, 500))
	// Rounding alone cannot mark a goal completed while it is exceeded.
	assert.Equal(t, EstadoSuperada, Status(500.4, 500))
}

func TestAnnotateExceededGoal(t *testing.T) {
	g := Goal{MontoObjetivo: 500, MontoAcumulado: 600}
	g.Annotate()
	assert.Equal(t, 100, g.Porcentaje)
	assert.Equal(t, EstadoSuperada, g.Estado)
}
