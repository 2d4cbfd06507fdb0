package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optica/optica/internal/platform/notify"
	"github.com/optica/optica/internal/platform/validate"
	"github.com/optica/optica/pkg/pagination"
)

const (
	msgLoadFailed   = "No se pudieron cargar los pacientes"
	msgDetailFailed = "No se pudieron cargar los detalles del paciente"
	msgSaveFailed   = "No se pudo guardar el paciente"
	msgDeleteFailed = "No se pudo eliminar el paciente"
	msgInvalidID    = "id de paciente inválido"
	msgInvalidBody  = "cuerpo de la solicitud inválido"
)

type Handler struct {
	svc             *Service
	notifier        notify.Notifier
	defaultPageSize int
}

func NewHandler(svc *Service, notifier notify.Notifier, defaultPageSize int) *Handler {
	return &Handler{svc: svc, notifier: notifier, defaultPageSize: defaultPageSize}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
	api.POST("/patients/form", h.FormStep)
}

// fail notifies the client of an error and returns it as an HTTP error.
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

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContextWithDefault(c, h.defaultPageSize)
	page, err := h.svc.List(c.Request().Context(), pg, c.QueryParam("q"))
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgLoadFailed, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(NewRows(page.Items), page.Total, pg))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgDetailFailed, err)
	}
	return c.JSON(http.StatusOK, NewRow(p))
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}
	p, err := h.svc.Create(c.Request().Context(), in)
	if _, ok := validate.AsError(err); ok {
		return h.invalid(c, err)
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgSaveFailed, err)
	}

	n := notify.Success("Paciente agregado", "El paciente ha sido agregado correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusCreated, notify.Wrap(NewRow(p), n))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return h.fail(c, http.StatusBadRequest, msgInvalidBody, err)
	}
	p, err := h.svc.Update(c.Request().Context(), id, in)
	if _, ok := validate.AsError(err); ok {
		return h.invalid(c, err)
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	if err != nil {
		return h.fail(c, http.StatusInternalServerError, msgSaveFailed, err)
	}

	n := notify.Success("Paciente actualizado", "Los datos del paciente han sido actualizados correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusOK, notify.Wrap(NewRow(p), n))
}

func (h *Handler) DeletePatient(c echo.Context) error {
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

	n := notify.Success("Paciente eliminado", "El paciente ha sido eliminado correctamente")
	h.notifier.Notify(c.Request().Context(), n)
	return c.JSON(http.StatusOK, notify.Envelope{Notice: &n})
}

// formStepRequest moves the wizard of a client that lets the server drive
// the form. Action is "next", "back" or a step name.
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

// FormStep applies a navigation action to the patient wizard. Navigation
// never validates the input; the final POST/PUT does.
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
