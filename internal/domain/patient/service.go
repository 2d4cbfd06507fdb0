package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optica/optica/pkg/pagination"
)

type Service struct {
	patients Repository
	logger   zerolog.Logger
}

func NewService(patients Repository, logger zerolog.Logger) *Service {
	return &Service{patients: patients, logger: logger.With().Str("domain", "patient").Logger()}
}

// Page is one page of patients after the search filter.
type Page struct {
	Items []*Patient
	// Total counts every stored patient, not just the filtered rows.
	Total int
}

// List fetches page p and the total count concurrently, then keeps the rows
// that match q. The filter only sees the fetched page, so a page can come back
// with fewer matches than exist overall.
func (s *Service) List(ctx context.Context, p pagination.Params, q string) (*Page, error) {
	var (
		items []*Patient
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.patients.ListPage(gctx, p.PerPage, p.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.patients.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int("page", p.Page).Int("per_page", p.PerPage).Msg("list patients")
		return nil, err
	}

	filtered := make([]*Patient, 0, len(items))
	for _, pt := range items {
		if pt.Matches(q) {
			filtered = append(filtered, pt)
		}
	}
	return &Page{Items: filtered, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// Create validates in and stores a new patient. Invalid input never reaches
// the repository.
func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	p, err := NewForm(in).Build()
	if err != nil {
		return nil, err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("create patient")
		return nil, err
	}
	return p, nil
}

// Update overwrites every field of patient id with in.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*Patient, error) {
	p, err := NewForm(in).Build()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.patients.Update(ctx, p); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error().Err(err).Str("patient_id", id.String()).Msg("update patient")
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the patient. Its prescriptions go with it through the
// foreign key's ON DELETE CASCADE.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error().Err(err).Str("patient_id", id.String()).Msg("delete patient")
		}
		return err
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}
