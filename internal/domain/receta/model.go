package receta

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/optica/optica/internal/platform/datefmt"
)

var ErrNotFound = errors.New("receta no encontrada")

const (
	OjoDerecho   = "derecho"
	OjoIzquierdo = "izquierdo"
)

// LensTypes are the lens types offered by the prescription form.
var LensTypes = []string{"monofocal", "bifocal", "progresivo", "ocupacional"}

// Receta maps to the recetas table. Detalles is loaded separately.
type Receta struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	PacienteID       uuid.UUID     `db:"paciente_id" json:"paciente_id"`
	FechaEmision     datefmt.Date  `db:"fecha_emision" json:"fecha_emision"`
	FechaVencimiento *datefmt.Date `db:"fecha_vencimiento" json:"fecha_vencimiento"`
	Notas            *string       `db:"notas" json:"notas"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	Detalles         []*Detalle    `db:"-" json:"detalles"`
}

// Detalle maps to the receta_detalles table: the values for one eye.
type Detalle struct {
	ID               uuid.UUID `db:"id" json:"id"`
	RecetaID         uuid.UUID `db:"receta_id" json:"receta_id"`
	Ojo              string    `db:"ojo" json:"ojo"`
	TipoLente        *string   `db:"tipo_lente" json:"tipo_lente"`
	Esfera           *float64  `db:"esfera" json:"esfera"`
	Cilindro         *float64  `db:"cilindro" json:"cilindro"`
	Eje              *int      `db:"eje" json:"eje"`
	Adicion          *float64  `db:"adicion" json:"adicion"`
	DistanciaPupilar *float64  `db:"distancia_pupilar" json:"distancia_pupilar"`
	Altura           *float64  `db:"altura" json:"altura"`
	Notas            *string   `db:"notas" json:"notas"`
}

// Detalle returns the detail for ojo, or nil when the prescription has none.
func (r *Receta) Detalle(ojo string) *Detalle {
	for _, d := range r.Detalles {
		if d.Ojo == ojo {
			return d
		}
	}
	return nil
}

// DistinctLensTypes lists the lens types of ds in order of first appearance,
// skipping details without one.
func DistinctLensTypes(ds []*Detalle) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range ds {
		if d.TipoLente == nil || *d.TipoLente == "" || seen[*d.TipoLente] {
			continue
		}
		seen[*d.TipoLente] = true
		out = append(out, *d.TipoLente)
	}
	return out
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
