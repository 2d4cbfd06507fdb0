package receta

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optica/optica/internal/domain/patient"
)

type Service struct {
	recetas Repository
	logger  zerolog.Logger
}

func NewService(recetas Repository, logger zerolog.Logger) *Service {
	return &Service{recetas: recetas, logger: logger.With().Str("domain", "receta").Logger()}
}

// ListByPatient returns the patient's prescriptions, newest issue date first,
// each with its details. Details are fetched concurrently; a prescription
// whose details fail to load comes back with an empty list.
func (s *Service) ListByPatient(ctx context.Context, pacienteID uuid.UUID) ([]*Receta, error) {
	items, err := s.recetas.ListByPatient(ctx, pacienteID)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", pacienteID.String()).Msg("list recetas")
		return nil, err
	}

	var g errgroup.Group
	for _, rc := range items {
		rc := rc
		g.Go(func() error {
			ds, err := s.recetas.ListDetalles(ctx, rc.ID)
			if err != nil {
				s.logger.Warn().Err(err).Str("receta_id", rc.ID.String()).Msg("list detalles")
				ds = []*Detalle{}
			}
			rc.Detalles = ds
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}

// Get returns the prescription with its details.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Receta, error) {
	rc, err := s.recetas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rc.Detalles, err = s.recetas.ListDetalles(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("receta_id", id.String()).Msg("list detalles")
		return nil, err
	}
	return rc, nil
}

// Create validates in and stores the prescription with both eye details.
func (s *Service) Create(ctx context.Context, in Input) (*Receta, error) {
	rc, err := NewForm(in).Build()
	if err != nil {
		return nil, err
	}
	if err := s.recetas.Create(ctx, rc); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("patient_id", rc.PacienteID.String()).Msg("create receta")
		return nil, err
	}
	return rc, nil
}

// Update overwrites prescription id and replaces its details.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Receta, error) {
	rc, err := NewForm(in).Build()
	if err != nil {
		return nil, err
	}
	rc.ID = id
	if err := s.recetas.Update(ctx, rc); err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, patient.ErrNotFound) {
			s.logger.Error().Err(err).Str("receta_id", id.String()).Msg("update receta")
		}
		return nil, err
	}
	return rc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.recetas.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error().Err(err).Str("receta_id", id.String()).Msg("delete receta")
		}
		return err
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.recetas.Count(ctx)
}

// CountRecent counts prescriptions issued in the last days days, today included.
func (s *Service) CountRecent(ctx context.Context, now time.Time, days int) (int, error) {
	since := time.Date(now.Year(), now.Month(), now.Day()-days, 0, 0, 0, 0, time.UTC)
	return s.recetas.CountSince(ctx, since)
}
