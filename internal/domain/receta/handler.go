package receta

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optica/optica/internal/domain/patient"
	"github.com/optica/optica/internal/platform/notify"
	"github.com/optica/optica/internal/platform/validate"
)

const (
	msgLoadFailed   = "No se pudieron cargar las recetas del paciente"
	msgDetailFailed = "No se pudo cargar la receta"
	msgSaveFailed   = "No se pudo guardar la receta"
	msgUpdateFailed = "No se pudo actualizar la receta"
	msgDeleteFailed = "No se pudo eliminar la receta"
	msgPDFFailed    = "No se pudo generar el PDF de la receta"
	msgInvalidID    = "id inválido"
	msgInvalidBody  = "cuerpo de la solicitud inválido"
)

// PatientGetter loads the patient a prescription belongs to.
type PatientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Handler struct {
	svc      *Service
	patients PatientGetter
	pdf      *Generator
	notifier notify.Notifier
}

func NewHandler(svc *Service, patients PatientGetter, pdf *Generator, notifier notify.Notifier) *Handler {
	return &Handler{svc: svc, patients: patients, pdf: pdf, notifier: notifier}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/recetas", h.ListByPatient)
	api.POST("/patients/:id/recetas", h.CreateReceta)
	api.GET("/patients/:id/recetas/form", h.NewFormInput)
	api.POST("/recetas/form", h.FormStep)
	api.GET("/recetas/:id", h.GetReceta)
	api.GET("/recetas/:id/form", h.EditFormInput)
	api.PUT("/recetas/:id", h.UpdateReceta)
	api.DELETE("/recetas/:id", h.DeleteReceta)
	api.GET("/recetas/:id/pdf", h.DownloadPDF)
}

func (h *Handler) fail(c echo.Context, code int, msg string, err error) error {
	h.notifier.Notify(c.Request().Context(), notify.Error(msg))
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func (h *Handler) invalid(c echo.Context, err error) error {
	ve, ok := validate.AsError(err)
	if !ok {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}
	n := notify.Error(ve.Message)
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":  ve.Message,
		"fields": ve.Fields,
		"notice": n,
	})
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}
	return id, nil
}

// ListByPatient backs the expanded patient row.
func (h *Handler) ListByPatient(c echo.Context) error {
	pacienteID, err := parseID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), pacienteID)
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgLoadFailed, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": NewRows(items), "total": len(items)})
}

func (h *Handler) GetReceta(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rc, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgDetailFailed, err)
	}
	return c.JSON(http.StatusOK, NewRow(rc))
}

// NewFormInput returns the defaults of a new prescription for the patient.
func (h *Handler) NewFormInput(c echo.Context) error {
	pacienteID, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NewInput(pacienteID))
}

// EditFormInput returns the form prefilled from a stored prescription.
func (h *Handler) EditFormInput(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rc, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgDetailFailed, err)
	}
	return c.JSON(http.StatusOK, InputFrom(rc))
}

func (h *Handler) CreateReceta(c echo.Context) error {
	pacienteID, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}
	in.PacienteID = pacienteID.String()

	rc, err := h.svc.Create(c.Request().Context(), in)
	if _, ok := validate.AsError(err); ok {
		return h.invalid(c, err)
	}
	if errors.Is(err, patient.ErrNotFound) {
		return h.fail(c, http.StatusNotFound, patient.ErrNotFound.Error(), err)
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgSaveFailed, err)
	}

	n := notify.Success("Receta guardada", "La receta ha sido guardada correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusCreated, notify.Wrap(NewRow(rc), n))
}

func (h *Handler) UpdateReceta(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}

	rc, err := h.svc.Update(c.Request().Context(), id, in)
	if _, ok := validate.AsError(err); ok {
		return h.invalid(c, err)
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if errors.Is(err, patient.ErrNotFound) {
		return h.fail(c, http.StatusNotFound, patient.ErrNotFound.Error(), err)
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgUpdateFailed, err)
	}

	n := notify.Success("Receta actualizada", "La receta ha sido actualizada correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusOK, notify.Wrap(NewRow(rc), n))
}

func (h *Handler) DeleteReceta(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	err = h.svc.Delete(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgDeleteFailed, err)
	}

	n := notify.Success("Receta eliminada", "La receta ha sido eliminada correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusOK, notify.Envelope{Notice: &n})
}

// DownloadPDF renders the prescription and sends it as an attachment.
func (h *Handler) DownloadPDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	rc, err := h.svc.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgPDFFailed, err)
	}
	p, err := h.patients.Get(ctx, rc.PacienteID)
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgPDFFailed, err)
	}

	var buf bytes.Buffer
	if err := h.pdf.Write(&buf, rc, p); err != nil {
		return h.fail(c, http.StatusInternalServerError, msgPDFFailed, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": Filename(rc, p)}))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

type formStepRequest struct {
	Step   string `json:"step"`
	Action string `json:"action"`
	Input  Input  `json:"input"`
}

type formStepResponse struct {
	Step   string   `json:"step"`
	Steps  []string `json:"steps"`
	IsLast bool     `json:"is_last"`
	Input  Input    `json:"input"`
}

// FormStep applies a navigation action ("next", "back" or a step name) to the
// prescription wizard without validating.
func (h *Handler) FormStep(c echo.Context) error {
	var req formStepRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}

	f := NewForm(req.Input)
	if req.Step != "" {
		if err := f.GoTo(req.Step); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	switch req.Action {
	case "next":
		f.Next()
	case "back":
		f.Back()
	default:
		if err := f.GoTo(req.Action); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, formStepResponse{Step: f.Step(), Steps: f.Steps(), IsLast: f.IsLast(), Input: f.Input})
}
