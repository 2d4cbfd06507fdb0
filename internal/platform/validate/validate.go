// Package validate wires go-playground/validator into echo and defines the
// field-level error returned by every form in the application.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists the fields that failed validation, by their JSON names.
type Error struct {
	Message string   `json:"error"`
	Fields  []string `json:"fields"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// MsgRequired is shown when mandatory fields are missing.
const MsgRequired = "Por favor completa los campos obligatorios"

// NewError returns an *Error for fields, or nil when fields is empty.
func NewError(msg string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Message: msg, Fields: fields}
}

// AsError unwraps err to *Error.
func AsError(err error) (*Error, bool) {
	var ve *Error
	ok := errors.As(err, &ve)
	return ve, ok
}

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Validate checks the validate struct tags of i. Failures come back as *Error
// carrying MsgRequired and the sorted JSON names of the offending fields.
// Nested fields are named by their path, e.g. "derecho.tipo_lente".
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := make(map[string]bool)
	var fields []string
	for _, fe := range verrs {
		name := fe.Namespace()
		if _, rest, ok := strings.Cut(name, "."); ok {
			name = rest
		}
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return &Error{Message: MsgRequired, Fields: fields}
}

var std = New()

// Struct validates i with the shared Validator.
func Struct(i interface{}) error {
	return std.Validate(i)
}
