package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	MsgNotFound = "Página no encontrada"
	MsgInternal = "Error interno del servidor"
	MsgTimeout  = "La solicitud tardó demasiado"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// HTTPErrorHandler renders errors as ErrorBody. Unknown routes answer 404
// "Página no encontrada"; errors that are not *echo.HTTPError become a 500
// whose detail is logged but not returned.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := MsgInternal

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch {
			case code == http.StatusNotFound && (errors.Is(err, echo.ErrNotFound) || he.Message == http.StatusText(http.StatusNotFound)):
				msg = MsgNotFound
			case code == http.StatusMethodNotAllowed:
				msg = http.StatusText(code)
			default:
				msg = fmt.Sprint(he.Message)
			}
		} else {
			logger.Error().Err(err).
				Str("request_id", RequestIDFrom(c)).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		body := ErrorBody{Error: msg, RequestID: RequestIDFrom(c)}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
