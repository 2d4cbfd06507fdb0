package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListPage returns patients newest first.
	ListPage(ctx context.Context, limit, offset int) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
}
