package receta

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists prescriptions and their details. Create and Update
// write the header and the details atomically.
type Repository interface {
	Create(ctx context.Context, r *Receta) error
	Update(ctx context.Context, r *Receta) error
	GetByID(ctx context.Context, id uuid.UUID) (*Receta, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, pacienteID uuid.UUID) ([]*Receta, error)
	ListDetalles(ctx context.Context, recetaID uuid.UUID) ([]*Detalle, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
