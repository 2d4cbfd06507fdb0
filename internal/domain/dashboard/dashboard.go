// Package dashboard serves the landing page statistics.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optica/optica/internal/platform/notify"
)

// RecentDays is the window of the "recent prescriptions" figure.
const RecentDays = 30

const msgLoadFailed = "No se pudieron cargar las estadísticas"

type PatientCounter interface {
	Count(ctx context.Context) (int, error)
}

type RecetaCounter interface {
	Count(ctx context.Context) (int, error)
	CountRecent(ctx context.Context, now time.Time, days int) (int, error)
}

type Stats struct {
	Pacientes        int `json:"pacientes"`
	Recetas          int `json:"recetas"`
	RecetasRecientes int `json:"recetas_recientes"`
}

type Handler struct {
	patients PatientCounter
	recetas  RecetaCounter
	notifier notify.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewHandler(patients PatientCounter, recetas RecetaCounter, notifier notify.Notifier, logger zerolog.Logger) *Handler {
	return &Handler{
		patients: patients,
		recetas:  recetas,
		notifier: notifier,
		logger:   logger.With().Str("domain", "dashboard").Logger(),
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetStats)
}

// Collect runs the three counts concurrently.
func (h *Handler) Collect(ctx context.Context) (Stats, error) {
	var s Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Pacientes, err = h.patients.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Recetas, err = h.recetas.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.RecetasRecientes, err = h.recetas.CountRecent(gctx, h.now(), RecentDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (h *Handler) GetStats(c echo.Context) error {
	s, err := h.Collect(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("collect stats")
		h.notifier.Notify(c.Request().Context(), notify.Error(msgLoadFailed))
		return echo.NewHTTPError(http.StatusInternalServerError, msgLoadFailed).SetInternal(err)
	}
	return c.JSON(http.StatusOK, s)
}
